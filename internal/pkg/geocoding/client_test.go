package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(serverURL string) Geocoder {
	return NewGeocoder(Config{
		BaseURL:   serverURL,
		UserAgent: "ecoquest-test",
		Timeout:   2 * time.Second,
	}, zerolog.Nop())
}

func TestReverseGeocodeShortName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "ecoquest-test", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Juhu Beach, Mumbai, Maharashtra, India",
			"address": {"city": "Mumbai", "state": "Maharashtra", "country": "India"}
		}`))
	}))
	defer server.Close()

	name, err := newTestGeocoder(server.URL).ReverseGeocode(context.Background(), 19.0968, 72.8263)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai, Maharashtra", name)
}

func TestReverseGeocodeFallsBackToDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name": "Somewhere remote"}`))
	}))
	defer server.Close()

	name, err := newTestGeocoder(server.URL).ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Somewhere remote", name)
}

func TestReverseGeocodeUsesTownWhenNoCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address": {"town": "Alibag", "state": "Maharashtra"}}`))
	}))
	defer server.Close()

	name, err := newTestGeocoder(server.URL).ReverseGeocode(context.Background(), 18.6414, 72.8722)
	require.NoError(t, err)
	assert.Equal(t, "Alibag, Maharashtra", name)
}

func TestReverseGeocodeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).ReverseGeocode(context.Background(), 19.0760, 72.8777)
	assert.Error(t, err)
}

func TestReverseGeocodeEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).ReverseGeocode(context.Background(), 19.0760, 72.8777)
	assert.Error(t, err)
}

func TestSearchReturnsRankedPlaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "juhu beach", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat": "19.0968", "lon": "72.8263", "display_name": "Juhu Beach, Mumbai, India"},
			{"lat": "15.2993", "lon": "74.1240", "display_name": "Juhu Beach, Goa, India"}
		]`))
	}))
	defer server.Close()

	places, err := newTestGeocoder(server.URL).Search(context.Background(), "juhu beach", 3)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.InDelta(t, 19.0968, places[0].Latitude, 0.0001)
	assert.InDelta(t, 72.8263, places[0].Longitude, 0.0001)
	assert.Equal(t, "Juhu Beach, Mumbai, India", places[0].DisplayName)
	assert.Equal(t, "Juhu Beach, Goa, India", places[1].DisplayName)
}

func TestSearchSkipsUnparsableCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat": "not-a-number", "lon": "72.8263", "display_name": "Broken"},
			{"lat": "19.0968", "lon": "72.8263", "display_name": "Valid"}
		]`))
	}))
	defer server.Close()

	places, err := newTestGeocoder(server.URL).Search(context.Background(), "somewhere", 0)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Valid", places[0].DisplayName)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	places, err := newTestGeocoder(server.URL).Search(context.Background(), "zzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).Search(context.Background(), "mumbai", 5)
	assert.Error(t, err)
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "19.0760, 72.8777", FallbackName(19.076, 72.8777))
	assert.Equal(t, "-33.8688, 151.2093", FallbackName(-33.8688, 151.2093))
}
