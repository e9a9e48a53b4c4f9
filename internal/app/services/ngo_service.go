package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/repositories"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/geocoding"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// monthlySeriesLength is how many months the NGO activity series spans
const monthlySeriesLength = 12

// NGOService handles NGO profiles and impact statistics
type NGOService struct {
	ngoRepo  NGOStore
	userRepo UserStore
	geocoder geocoding.Geocoder
	logger   zerolog.Logger
}

// NewNGOService creates a new NGOService
func NewNGOService(
	ngoRepo NGOStore,
	userRepo UserStore,
	geocoder geocoding.Geocoder,
	logger zerolog.Logger,
) *NGOService {
	return &NGOService{
		ngoRepo:  ngoRepo,
		userRepo: userRepo,
		geocoder: geocoder,
		logger:   logger,
	}
}

// GetByID retrieves an NGO's public profile
func (s *NGOService) GetByID(ctx context.Context, ngoID int64) (*models.NGO, error) {
	return s.ngoRepo.GetByID(ctx, ngoID)
}

// GetOwn retrieves the NGO the caller organises for
func (s *NGOService) GetOwn(ctx context.Context, userID int64) (*models.NGO, error) {
	ngoID, err := s.resolveOwnNGO(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ngoRepo.GetByID(ctx, ngoID)
}

// Update applies a partial update to the caller's own NGO. A location
// change without a new name triggers a reverse geocode.
func (s *NGOService) Update(ctx context.Context, userID int64, req *dto.UpdateNGORequest) (*models.NGO, error) {
	ngoID, err := s.resolveOwnNGO(ctx, userID)
	if err != nil {
		return nil, err
	}

	locationName := req.LocationName
	if locationName == nil && req.Latitude != nil && req.Longitude != nil {
		name := s.reverseGeocode(ctx, *req.Latitude, *req.Longitude)
		locationName = &name
	}

	err = s.ngoRepo.Update(ctx, ngoID, req.Name, req.ContactNo, locationName,
		req.Latitude, req.Longitude, req.OrganizationSize, req.EstablishmentYear)
	if err != nil {
		return nil, err
	}

	return s.ngoRepo.GetByID(ctx, ngoID)
}

// GetStats assembles the caller's NGO impact dashboard: overall aggregates
// plus a gap-free 12 month activity series ending in the current month
func (s *NGOService) GetStats(ctx context.Context, userID int64) (*dto.NGOStatsResponse, error) {
	ngoID, err := s.resolveOwnNGO(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ngoRepo.GetStats(ctx, ngoID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := helpers.MonthsBack(now, monthlySeriesLength-1)
	monthly, err := s.ngoRepo.GetMonthlyStats(ctx, ngoID, since)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]repositories.MonthlyStat, len(monthly))
	for _, stat := range monthly {
		byMonth[helpers.MonthKey(stat.Month)] = stat
	}

	series := make([]dto.MonthlyStatResponse, monthlySeriesLength)
	for i := 0; i < monthlySeriesLength; i++ {
		key := helpers.MonthKey(helpers.MonthsBack(now, monthlySeriesLength-1-i))
		entry := dto.MonthlyStatResponse{Month: key}
		if stat, ok := byMonth[key]; ok {
			entry.EventCount = stat.EventCount
			entry.VolunteerCount = stat.VolunteerCount
			entry.WasteCollectedKg = stat.WasteCollectedKg
		}
		series[i] = entry
	}

	return &dto.NGOStatsResponse{
		TotalEvents:         stats.TotalEvents,
		CompletedEvents:     stats.CompletedEvents,
		UpcomingEvents:      stats.UpcomingEvents,
		TotalVolunteers:     stats.TotalVolunteers,
		TotalWasteCollected: stats.TotalWasteCollected,
		AverageEventRating:  stats.AverageEventRating,
		MonthlySeries:       series,
	}, nil
}

func (s *NGOService) resolveOwnNGO(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.NGOID == nil {
		return 0, apperrors.ErrNGONotFound
	}
	return *user.NGOID, nil
}

func (s *NGOService) reverseGeocode(ctx context.Context, latitude, longitude float64) string {
	name, err := s.geocoder.ReverseGeocode(ctx, latitude, longitude)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reverse geocoding failed, using coordinate fallback")
		return geocoding.FallbackName(latitude, longitude)
	}
	return name
}
