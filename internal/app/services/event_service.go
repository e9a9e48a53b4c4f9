package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/geo"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

const (
	joinCodeLength   = 6
	joinCodeCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeAttempts = 5
)

// EventService handles event lifecycle and discovery
type EventService struct {
	eventRepo    EventStore
	userRepo     UserStore
	ngoRepo      NGOStore
	partRepo     ParticipationStore
	feedbackRepo FeedbackStore
	gamification *GamificationService
	logger       zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo EventStore,
	userRepo UserStore,
	ngoRepo NGOStore,
	partRepo ParticipationStore,
	feedbackRepo FeedbackStore,
	gamification *GamificationService,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		ngoRepo:      ngoRepo,
		partRepo:     partRepo,
		feedbackRepo: feedbackRepo,
		gamification: gamification,
		logger:       logger,
	}
}

// Create creates a new UPCOMING event for the organiser's NGO. Join codes
// are random; on the unlikely collision the insert is retried with a fresh
// code.
func (s *EventService) Create(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*models.Event, error) {
	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.NGOID == nil {
		return nil, apperrors.NewForbiddenError("only organisers with an NGO can create events")
	}
	if req.Date.Before(startOfDay(time.Now())) {
		return nil, apperrors.ErrEventDatePassed
	}

	event := &models.Event{
		Title:         req.Title,
		Description:   req.Description,
		CreatorID:     creatorID,
		NGOID:         *creator.NGOID,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		LocationName:  req.LocationName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		WasteTargetKg: req.WasteTargetKg,
		Status:        models.EventUpcoming,
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("join code generation error: %w", err)
		}
		event.JoinCode = code

		err = s.eventRepo.Create(ctx, event)
		if err == nil {
			s.logger.Info().Int64("eventID", event.ID).Int64("creatorID", creatorID).Msg("Event created")
			return event, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeAttempts)
}

// GetByID retrieves an event with its NGO and registration count
func (s *EventService) GetByID(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.decorateEvents(ctx, []*models.Event{event})
	return event, nil
}

// GetStatistics aggregates waste collection progress and feedback for an
// event. Errors on the individual aggregates are logged and degrade to
// zero values rather than failing the detail view.
func (s *EventService) GetStatistics(ctx context.Context, event *models.Event) *dto.EventStatisticsResponse {
	stats := &dto.EventStatisticsResponse{}

	totalWaste, err := s.partRepo.TotalWasteByEventID(ctx, event.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("event_id", event.ID).Msg("Failed to total waste collected")
	} else {
		stats.TotalWasteKg = totalWaste
		if event.WasteTargetKg > 0 {
			stats.ProgressPercentage = totalWaste / event.WasteTargetKg * 100
		}
	}

	avgRating, err := s.feedbackRepo.AverageRatingByEventID(ctx, event.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("event_id", event.ID).Msg("Failed to average feedback ratings")
	} else {
		stats.AverageRating = avgRating
	}

	return stats
}

// GetAll retrieves events with filtering and pagination. Without an
// explicit status filter, finished and cancelled events are excluded.
func (s *EventService) GetAll(ctx context.Context, req *dto.EventFilterRequest) ([]models.Event, dto.PaginationInfo, error) {
	statuses := []string{string(models.EventUpcoming), string(models.EventOngoing)}
	if req.Status != nil && *req.Status != "" {
		statuses = []string{*req.Status}
	}

	events, total, err := s.eventRepo.GetAll(ctx, statuses, req.NGOID, req.Search, req.Page, req.PageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	s.decorateEventSlice(ctx, events)
	return events, helpers.NewPaginationInfo(total, req.Page, req.PageSize), nil
}

// GetByCreator retrieves the events an organiser created
func (s *EventService) GetByCreator(ctx context.Context, creatorID int64, page, pageSize int) ([]models.Event, dto.PaginationInfo, error) {
	events, total, err := s.eventRepo.GetByCreator(ctx, creatorID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	s.decorateEventSlice(ctx, events)
	return events, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// GetNearby retrieves events ordered nearest first from the given origin.
// A status filter narrows to one lifecycle state; otherwise both UPCOMING
// and ONGOING events qualify. When a radius is supplied, events beyond it
// are excluded; without one the full list is returned in distance order.
func (s *EventService) GetNearby(ctx context.Context, req *dto.NearbyEventsRequest) ([]models.Event, dto.PaginationInfo, error) {
	statuses := []string{string(models.EventUpcoming), string(models.EventOngoing)}
	if req.Status != nil && *req.Status != "" {
		statuses = []string{*req.Status}
	}

	events, err := s.eventRepo.GetByStatuses(ctx, statuses)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	nearby := make([]models.Event, 0, len(events))
	for _, event := range events {
		event.DistanceKm = geo.HaversineKm(*req.Latitude, *req.Longitude, event.Latitude, event.Longitude)
		if req.RadiusKm != nil && event.DistanceKm > *req.RadiusKm {
			continue
		}
		nearby = append(nearby, event)
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].ID < nearby[j].ID
	})

	total := int64(len(nearby))
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	start := int(offset)
	if start > len(nearby) {
		start = len(nearby)
	}
	end := start + limit
	if end > len(nearby) {
		end = len(nearby)
	}
	page := nearby[start:end]

	s.decorateEventSlice(ctx, page)
	return page, helpers.NewPaginationInfo(total, req.Page, req.PageSize), nil
}

// Update applies a partial update to an event owned by the caller. Events
// in a terminal state can no longer be edited.
func (s *EventService) Update(ctx context.Context, userID, eventID int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidState
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Latitude != nil {
		event.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = *req.Longitude
	}
	if req.LocationName != nil {
		event.LocationName = *req.LocationName
	}
	if req.Date != nil {
		if req.Date.Before(startOfDay(time.Now())) {
			return nil, apperrors.ErrEventDatePassed
		}
		event.Date = *req.Date
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.WasteTargetKg != nil {
		event.WasteTargetKg = *req.WasteTargetKg
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, eventID)
}

// Delete removes an UPCOMING event owned by the caller
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	if _, err := s.getOwnedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

// Start transitions an UPCOMING event to ONGOING
func (s *EventService) Start(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	if err := s.transition(ctx, userID, eventID, models.EventUpcoming, models.EventOngoing); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", eventID).Msg("Event started")
	return s.GetByID(ctx, eventID)
}

// Cancel transitions an UPCOMING event to CANCELLED
func (s *EventService) Cancel(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	if err := s.transition(ctx, userID, eventID, models.EventUpcoming, models.EventCancelled); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", eventID).Msg("Event cancelled")
	return s.GetByID(ctx, eventID)
}

// transition verifies ownership and the state machine, then attempts the
// conditional status update. The pre-check gives a clean error on stale
// state; the CAS in the repository stays authoritative under races.
func (s *EventService) transition(ctx context.Context, userID, eventID int64, from, to models.EventStatus) error {
	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if event.Status != from || !event.Status.CanTransitionTo(to) {
		return apperrors.ErrInvalidState
	}
	return s.eventRepo.UpdateStatus(ctx, eventID, from, to)
}

// End transitions an ONGOING event to COMPLETED and backfills zero-waste
// attendance rows for checked-in volunteers who never submitted a
// collection, so their participation counters and streaks still advance.
func (s *EventService) End(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	if err := s.transition(ctx, userID, eventID, models.EventOngoing, models.EventCompleted); err != nil {
		return nil, err
	}

	attendeeIDs, err := s.partRepo.CreateAttendanceRows(ctx, eventID)
	if err != nil {
		// The event is already COMPLETED at this point; log and return it
		// rather than failing the whole operation.
		s.logger.Error().Err(err).Int64("eventID", eventID).Msg("Could not backfill attendance rows")
	}
	for _, attendeeID := range attendeeIDs {
		if err := s.gamification.RecordParticipation(ctx, attendeeID, 0); err != nil {
			s.logger.Error().Err(err).Int64("userID", attendeeID).Msg("Could not record attendance")
		}
	}

	s.logger.Info().Int64("eventID", eventID).Int("attendanceRows", len(attendeeIDs)).Msg("Event completed")
	return s.GetByID(ctx, eventID)
}

// getOwnedEvent loads an event and verifies the caller created it
func (s *EventService) getOwnedEvent(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != userID {
		return nil, apperrors.NewForbiddenError("you do not have permission to manage this event")
	}
	return event, nil
}

func (s *EventService) decorateEventSlice(ctx context.Context, events []models.Event) {
	ptrs := make([]*models.Event, len(events))
	for i := range events {
		ptrs[i] = &events[i]
	}
	s.decorateEvents(ctx, ptrs)
}

// decorateEvents attaches registration counts and NGO details. Both are
// display data, so lookup failures are logged and skipped.
func (s *EventService) decorateEvents(ctx context.Context, events []*models.Event) {
	if len(events) == 0 {
		return
	}

	eventIDs := make([]int64, len(events))
	for i, event := range events {
		eventIDs[i] = event.ID
	}

	counts, err := s.eventRepo.GetRegistrationCounts(ctx, eventIDs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not load registration counts")
	} else {
		for _, event := range events {
			event.RegistrationCount = counts[event.ID]
		}
	}

	ngos := make(map[int64]*models.NGO)
	for _, event := range events {
		ngo, ok := ngos[event.NGOID]
		if !ok {
			ngo, err = s.ngoRepo.GetByID(ctx, event.NGOID)
			if err != nil {
				s.logger.Warn().Err(err).Int64("ngoID", event.NGOID).Msg("Could not load NGO for event")
				continue
			}
			ngos[event.NGOID] = ngo
		}
		event.NGO = ngo
	}
}

// generateJoinCode produces a 6 character uppercase alphanumeric code
func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, joinCodeLength)
	for i, b := range buf {
		code[i] = joinCodeCharset[int(b)%len(joinCodeCharset)]
	}
	return string(code), nil
}

// startOfDay truncates a time to midnight UTC for date-only comparisons
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
