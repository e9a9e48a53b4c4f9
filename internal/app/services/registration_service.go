package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/config"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// RegistrationService handles event registration and on-site check-in
type RegistrationService struct {
	registrationRepo RegistrationStore
	eventRepo        EventStore
	gamification     *GamificationService
	cfg              *config.Config
	logger           zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	registrationRepo RegistrationStore,
	eventRepo EventStore,
	gamification *GamificationService,
	cfg *config.Config,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		gamification:     gamification,
		cfg:              cfg,
		logger:           logger,
	}
}

// Register signs a user up for an UPCOMING event with a future date and
// awards registration XP
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventUpcoming {
		return nil, apperrors.ErrInvalidState
	}
	if event.Date.Before(startOfDay(time.Now())) {
		return nil, apperrors.ErrEventDatePassed
	}

	registration := &models.Registration{UserID: userID, EventID: eventID}
	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		return nil, err
	}

	s.awardXP(ctx, userID, XPEventRegistration, ReasonEventRegistration, eventID)
	return registration, nil
}

// Unregister removes a user's registration from an UPCOMING event. A
// registration that does not exist is reported as not found. When
// configured, the registration XP is taken back.
func (s *RegistrationService) Unregister(ctx context.Context, userID, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.EventUpcoming {
		return apperrors.ErrInvalidState
	}

	if err := s.registrationRepo.Delete(ctx, userID, eventID); err != nil {
		return err
	}

	if s.cfg.Gamification.RetractRegistrationXP {
		s.awardXP(ctx, userID, -XPEventRegistration, ReasonRegistrationRemoved, eventID)
	}
	return nil
}

// CheckIn marks a user present at an ONGOING event using its join code.
// A user who never registered is registered and checked in as one step.
func (s *RegistrationService) CheckIn(ctx context.Context, userID int64, joinCode string) (*models.Registration, error) {
	event, err := s.eventRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventOngoing {
		return nil, apperrors.ErrInvalidState
	}

	registration, err := s.registrationRepo.CheckIn(ctx, userID, event.ID)
	if err == nil {
		s.awardXP(ctx, userID, XPEventCheckIn, ReasonEventCheckIn, event.ID)
		registration.Event = event
		return registration, nil
	}
	if !errors.Is(err, apperrors.ErrRegistrationNotFound) {
		return nil, err
	}

	// Walk-in: create the registration on the spot, then check in. A lost
	// race against a concurrent register is fine, the row exists either way.
	createErr := s.registrationRepo.Create(ctx, &models.Registration{UserID: userID, EventID: event.ID})
	if createErr != nil && !errors.Is(createErr, apperrors.ErrAlreadyRegistered) {
		return nil, createErr
	}
	if createErr == nil {
		s.awardXP(ctx, userID, XPEventRegistration, ReasonEventRegistration, event.ID)
	}

	registration, err = s.registrationRepo.CheckIn(ctx, userID, event.ID)
	if err != nil {
		return nil, err
	}

	s.awardXP(ctx, userID, XPEventCheckIn, ReasonEventCheckIn, event.ID)
	registration.Event = event
	return registration, nil
}

// GetByEvent lists an event's registrations for its creator
func (s *RegistrationService) GetByEvent(ctx context.Context, requesterID, eventID int64, page, pageSize int) ([]models.Registration, dto.PaginationInfo, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	if event.CreatorID != requesterID {
		return nil, dto.PaginationInfo{}, apperrors.NewForbiddenError("only the event creator can view registrations")
	}

	registrations, total, err := s.registrationRepo.GetByEventID(ctx, eventID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return registrations, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// GetStatus looks up the requester's own registration for an event. A
// missing registration is not an error here; the caller reports it as
// unregistered.
func (s *RegistrationService) GetStatus(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	registration, err := s.registrationRepo.GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRegistrationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return registration, nil
}

// GetByUser lists the events a user registered for
func (s *RegistrationService) GetByUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Registration, dto.PaginationInfo, error) {
	registrations, total, err := s.registrationRepo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return registrations, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// awardXP applies gamification side effects. These never fail the primary
// operation, the ledger can be reconciled later.
func (s *RegistrationService) awardXP(ctx context.Context, userID int64, points int, reason string, eventID int64) {
	if _, err := s.gamification.AwardXP(ctx, userID, points, reason, &eventID); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Str("reason", reason).Msg("XP award failed")
	}
}
