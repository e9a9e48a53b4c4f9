package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Geocoder defines the interface for geocoding operations
type Geocoder interface {
	// ReverseGeocode resolves a coordinate pair to a human-readable place name
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error)
	// Search resolves a free-text query to candidate places, best match first
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}

// Place is one forward-geocoding candidate
type Place struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Config holds configuration for the geocoding provider
type Config struct {
	BaseURL   string        // Provider endpoint, e.g. https://nominatim.openstreetmap.org
	UserAgent string        // Identifying User-Agent required by the provider's usage policy
	Timeout   time.Duration // Per-request timeout
}

// nominatimResponse mirrors the subset of the provider response we consume
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Suburb  string `json:"suburb"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// GeocoderImpl implements Geocoder against a Nominatim-compatible endpoint
type GeocoderImpl struct {
	config Config
	client *http.Client
	logger zerolog.Logger
}

// NewGeocoder creates a new Geocoder
func NewGeocoder(config Config, logger zerolog.Logger) Geocoder {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &GeocoderImpl{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// ReverseGeocode resolves a coordinate pair to a place name. Failures are
// returned to the caller; callers treating the name as decorative should
// fall back to a coordinate string.
func (g *GeocoderImpl) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse", g.config.BaseURL)

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(latitude, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geocoding request: %w", err)
	}
	if g.config.UserAgent != "" {
		req.Header.Set("User-Agent", g.config.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Float64("lat", latitude).Float64("lon", longitude).Msg("Reverse geocoding request failed")
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn().Int("status", resp.StatusCode).Msg("Geocoding provider returned non-OK status")
		return "", fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if name := shortName(body); name != "" {
		return name, nil
	}
	if body.DisplayName != "" {
		return body.DisplayName, nil
	}
	return "", fmt.Errorf("geocoding response contained no usable place name")
}

// searchResult mirrors one entry of the provider's search response. The
// provider encodes coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search resolves a free-text query to candidate places. The provider
// returns results ranked by relevance and that order is preserved.
func (g *GeocoderImpl) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	endpoint := fmt.Sprintf("%s/search", g.config.BaseURL)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	if g.config.UserAgent != "" {
		req.Header.Set("User-Agent", g.config.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("Geocoding search request failed")
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn().Int("status", resp.StatusCode).Msg("Geocoding provider returned non-OK status")
		return nil, fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		places = append(places, Place{
			Latitude:    lat,
			Longitude:   lon,
			DisplayName: r.DisplayName,
		})
	}

	return places, nil
}

// shortName builds a compact "locality, region" label from address parts
func shortName(r nominatimResponse) string {
	locality := r.Address.City
	if locality == "" {
		locality = r.Address.Town
	}
	if locality == "" {
		locality = r.Address.Village
	}
	if locality == "" {
		locality = r.Address.Suburb
	}

	region := r.Address.State
	if region == "" {
		region = r.Address.Country
	}

	switch {
	case locality != "" && region != "":
		return locality + ", " + region
	case locality != "":
		return locality
	case region != "":
		return region
	default:
		return ""
	}
}

// FallbackName formats a coordinate pair as a display name for use when
// reverse geocoding is unavailable.
func FallbackName(latitude, longitude float64) string {
	return fmt.Sprintf("%.4f, %.4f", latitude, longitude)
}
