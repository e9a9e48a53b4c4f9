package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/geocoding"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// UserService handles user profile operations
type UserService struct {
	userRepo UserStore
	ngoRepo  NGOStore
	geocoder geocoding.Geocoder
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo UserStore,
	ngoRepo NGOStore,
	geocoder geocoding.Geocoder,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		ngoRepo:  ngoRepo,
		geocoder: geocoder,
		logger:   logger,
	}
}

// GetProfile retrieves a user's profile, including NGO details for organisers
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.NGOID != nil {
		ngo, err := s.ngoRepo.GetByID(ctx, *user.NGOID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("ngoID", *user.NGOID).Msg("Could not load NGO for profile")
		} else {
			user.NGO = ngo
		}
	}

	return user, nil
}

// UpdateProfile updates a user's name
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// CompleteOnboarding finalizes a new user's profile. Organisers get an NGO
// created and linked in the same flow. The operation is idempotent at the
// database level; a repeat attempt surfaces ErrConflict.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID int64, req *dto.OnboardingRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsOnboarded {
		return nil, apperrors.NewConflictError("onboarding already completed")
	}

	locationName := s.resolveLocationName(ctx, req.HomeLocationName, req.HomeLatitude, req.HomeLongitude)

	var ngoID *int64
	if req.Role == models.RoleOrganiser {
		ngo, err := s.createNGOFromOnboarding(ctx, req)
		if err != nil {
			return nil, err
		}
		ngoID = &ngo.ID
	}

	if err := s.userRepo.CompleteOnboarding(ctx, userID, req.Role, ngoID, req.HomeLatitude, req.HomeLongitude, locationName); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("role", string(req.Role)).Msg("Onboarding completed")

	return s.GetProfile(ctx, userID)
}

// UpdateHomeLocation updates the user's default proximity search origin
func (s *UserService) UpdateHomeLocation(ctx context.Context, userID int64, req *dto.UpdateHomeLocationRequest) (*models.User, error) {
	locationName := s.resolveLocationName(ctx, req.LocationName, req.Latitude, req.Longitude)

	if err := s.userRepo.UpdateHomeLocation(ctx, userID, req.Latitude, req.Longitude, locationName); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// SearchLocations resolves a free-text place query to candidate
// coordinates, best match first. Used when picking a home or event
// location.
func (s *UserService) SearchLocations(ctx context.Context, query string, limit int) ([]dto.PlaceResponse, error) {
	places, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Location search failed")
		return nil, apperrors.NewCustomError(apperrors.ErrUpstreamUnavailable, "location search is unavailable")
	}

	results := make([]dto.PlaceResponse, len(places))
	for i, place := range places {
		results[i] = dto.PlaceResponse{
			Latitude:    place.Latitude,
			Longitude:   place.Longitude,
			DisplayName: place.DisplayName,
		}
	}
	return results, nil
}

// UpdatePicture stores the user's new profile picture URL
func (s *UserService) UpdatePicture(ctx context.Context, userID int64, pictureURL string) error {
	return s.userRepo.UpdatePicture(ctx, userID, &pictureURL)
}

// GetAll retrieves users with filtering and pagination
func (s *UserService) GetAll(ctx context.Context, req *dto.UserFilterRequest) ([]models.User, dto.PaginationInfo, error) {
	users, total, err := s.userRepo.GetAll(ctx, req.Role, req.Search, req.Page, req.PageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return users, helpers.NewPaginationInfo(total, req.Page, req.PageSize), nil
}

// resolveLocationName reverse geocodes a coordinate pair when the caller did
// not supply a name. Geocoding is best effort; on failure the coordinates
// themselves become the display name.
func (s *UserService) resolveLocationName(ctx context.Context, provided *string, latitude, longitude float64) string {
	if provided != nil && *provided != "" {
		return *provided
	}

	name, err := s.geocoder.ReverseGeocode(ctx, latitude, longitude)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reverse geocoding failed, using coordinate fallback")
		return geocoding.FallbackName(latitude, longitude)
	}
	return name
}

func (s *UserService) createNGOFromOnboarding(ctx context.Context, req *dto.OnboardingRequest) (*models.NGO, error) {
	if req.NGOName == nil || *req.NGOName == "" {
		return nil, apperrors.NewValidationError("ngoName", "NGO name is required for organisers")
	}
	if req.NGOLatitude == nil || req.NGOLongitude == nil {
		return nil, apperrors.NewValidationError("ngoLatitude", "NGO location is required for organisers")
	}

	ngo := &models.NGO{
		Name:         *req.NGOName,
		Latitude:     *req.NGOLatitude,
		Longitude:    *req.NGOLongitude,
		LocationName: s.resolveLocationName(ctx, req.NGOLocationName, *req.NGOLatitude, *req.NGOLongitude),
	}
	if req.NGOContactNo != nil {
		ngo.ContactNo = *req.NGOContactNo
	}
	if req.NGOOrganizationSize != nil {
		ngo.OrganizationSize = *req.NGOOrganizationSize
	}
	if req.NGOEstablishmentYear != nil {
		ngo.EstablishmentYear = *req.NGOEstablishmentYear
	}

	if err := s.ngoRepo.Create(ctx, ngo); err != nil {
		return nil, fmt.Errorf("ngo creation error: %w", err)
	}

	return ngo, nil
}
