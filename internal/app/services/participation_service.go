package services

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// ParticipationXP computes the XP for a waste collection submission
func ParticipationXP(wasteKg float64) int {
	return XPParticipationBase + int(math.Floor(float64(XPPerKgWaste)*wasteKg))
}

// ParticipationService handles waste collection submissions, verification
// and post-event feedback
type ParticipationService struct {
	participationRepo ParticipationStore
	registrationRepo  RegistrationStore
	eventRepo         EventStore
	feedbackRepo      FeedbackStore
	gamification      *GamificationService
	logger            zerolog.Logger
}

// NewParticipationService creates a new ParticipationService
func NewParticipationService(
	participationRepo ParticipationStore,
	registrationRepo RegistrationStore,
	eventRepo EventStore,
	feedbackRepo FeedbackStore,
	gamification *GamificationService,
	logger zerolog.Logger,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		registrationRepo:  registrationRepo,
		eventRepo:         eventRepo,
		feedbackRepo:      feedbackRepo,
		gamification:      gamification,
		logger:            logger,
	}
}

// Submit records a waste collection for an ONGOING event. The submitter
// must have checked in first. XP is a base amount plus a per-kilogram rate.
func (s *ParticipationService) Submit(ctx context.Context, userID, eventID int64, req *dto.SubmitParticipationRequest) (*models.Participation, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventOngoing {
		return nil, apperrors.ErrInvalidState
	}

	registration, err := s.registrationRepo.GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRegistrationNotFound) {
			return nil, apperrors.ErrNotCheckedIn
		}
		return nil, err
	}
	if !registration.HasJoined {
		return nil, apperrors.ErrNotCheckedIn
	}

	participation := &models.Participation{
		UserID:              userID,
		EventID:             eventID,
		WasteCollectedKg:    req.WasteCollectedKg,
		WasteDescription:    req.WasteDescription,
		ProofImageURL:       req.ProofImageURL,
		AfterImageURL:       req.AfterImageURL,
		CollectionLatitude:  req.CollectionLatitude,
		CollectionLongitude: req.CollectionLongitude,
		CollectionLocation:  req.CollectionLocation,
		XPEarned:            ParticipationXP(req.WasteCollectedKg),
		Attended:            true,
	}
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		return nil, err
	}

	if _, err := s.gamification.AwardXP(ctx, userID, participation.XPEarned, ReasonParticipation, &eventID); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("XP award failed for participation")
	}
	if err := s.gamification.RecordParticipation(ctx, userID, req.WasteCollectedKg); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Participation counters update failed")
	}

	return participation, nil
}

// Verify lets the event creator confirm a submission and grant bonus XP
func (s *ParticipationService) Verify(ctx context.Context, requesterID, participationID int64, req *dto.VerifyParticipationRequest) (*models.Participation, error) {
	participation, err := s.participationRepo.GetByID(ctx, participationID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, participation.EventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != requesterID {
		return nil, apperrors.NewForbiddenError("only the event creator can verify submissions")
	}

	verified, err := s.participationRepo.Verify(ctx, participationID, req.BonusXP)
	if err != nil {
		return nil, err
	}

	if req.BonusXP > 0 {
		if _, err := s.gamification.AwardXP(ctx, participation.UserID, req.BonusXP, ReasonVerificationBonus, &participation.EventID); err != nil {
			s.logger.Error().Err(err).Int64("userID", participation.UserID).Msg("Bonus XP award failed")
		}
	}

	return verified, nil
}

// GetByUser lists a user's participations, newest first
func (s *ParticipationService) GetByUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Participation, dto.PaginationInfo, error) {
	participations, total, err := s.participationRepo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return participations, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// GetByEvent lists an event's participations for its creator, optionally
// filtered by verification state
func (s *ParticipationService) GetByEvent(ctx context.Context, requesterID, eventID int64, verified *bool, page, pageSize int) ([]models.Participation, dto.PaginationInfo, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	if event.CreatorID != requesterID {
		return nil, dto.PaginationInfo{}, apperrors.NewForbiddenError("only the event creator can review submissions")
	}

	participations, total, err := s.participationRepo.GetByEventID(ctx, eventID, verified, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return participations, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// SubmitFeedback records post-event feedback for a COMPLETED event. One
// entry per user per event.
func (s *ParticipationService) SubmitFeedback(ctx context.Context, userID, eventID int64, req *dto.SubmitFeedbackRequest) (*models.EventFeedback, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventCompleted {
		return nil, apperrors.ErrInvalidState
	}

	// Feedback is reserved for people who were actually there
	if _, err := s.participationRepo.GetByUserAndEvent(ctx, userID, eventID); err != nil {
		if errors.Is(err, apperrors.ErrParticipationNotFound) {
			return nil, apperrors.NewForbiddenError("only participants can leave feedback")
		}
		return nil, err
	}

	feedback := &models.EventFeedback{
		UserID:   userID,
		EventID:  eventID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Category: req.Category,
		IsPublic: req.IsPublic,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}

// GetFeedback lists an event's public feedback
func (s *ParticipationService) GetFeedback(ctx context.Context, eventID int64, page, pageSize int) ([]models.EventFeedback, dto.PaginationInfo, error) {
	feedback, total, err := s.feedbackRepo.GetByEventID(ctx, eventID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return feedback, helpers.NewPaginationInfo(total, page, pageSize), nil
}
