package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/repositories"
	"github.com/ecoquest/backend/internal/config"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

// In-memory stores backing the service tests. They mirror the semantics the
// pgx repositories guarantee at the database level: unique registrations,
// compare-and-set status transitions and a non-negative XP aggregate over an
// append-only ledger.

type fakeEventStore struct {
	nextID int64
	events map[int64]*models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[int64]*models.Event)}
}

func (s *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	for _, existing := range s.events {
		if existing.JoinCode == event.JoinCode {
			return apperrors.ErrConflict
		}
	}
	s.nextID++
	event.ID = s.nextID
	event.CreatedAt = time.Now()
	stored := *event
	s.events[event.ID] = &stored
	return nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *fakeEventStore) GetByJoinCode(_ context.Context, joinCode string) (*models.Event, error) {
	for _, event := range s.events {
		if event.JoinCode == joinCode {
			copied := *event
			return &copied, nil
		}
	}
	return nil, apperrors.ErrInvalidJoinCode
}

func (s *fakeEventStore) GetAll(_ context.Context, statuses []string, ngoID *int64, search *string, page, pageSize int) ([]models.Event, int64, error) {
	var matched []models.Event
	for _, event := range s.events {
		if len(statuses) > 0 && !containsStatus(statuses, event.Status) {
			continue
		}
		if ngoID != nil && event.NGOID != *ngoID {
			continue
		}
		if search != nil && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(*search)) {
			continue
		}
		matched = append(matched, *event)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginateEvents(matched, page, pageSize)
}

func (s *fakeEventStore) GetByCreator(_ context.Context, creatorID int64, page, pageSize int) ([]models.Event, int64, error) {
	var matched []models.Event
	for _, event := range s.events {
		if event.CreatorID == creatorID {
			matched = append(matched, *event)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginateEvents(matched, page, pageSize)
}

func (s *fakeEventStore) GetByStatuses(_ context.Context, statuses []string) ([]models.Event, error) {
	var matched []models.Event
	for _, event := range s.events {
		if containsStatus(statuses, event.Status) {
			matched = append(matched, *event)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (s *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	existing, ok := s.events[event.ID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	if existing.Status != models.EventUpcoming && existing.Status != models.EventOngoing {
		return apperrors.ErrInvalidState
	}
	updated := *event
	updated.Status = existing.Status
	s.events[event.ID] = &updated
	return nil
}

func (s *fakeEventStore) UpdateStatus(_ context.Context, eventID int64, from, to models.EventStatus) error {
	event, ok := s.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	if event.Status != from {
		return apperrors.ErrInvalidState
	}
	event.Status = to
	now := time.Now()
	switch to {
	case models.EventOngoing:
		event.StartTime = &now
	case models.EventCompleted:
		event.EndTime = &now
	}
	return nil
}

func (s *fakeEventStore) Delete(_ context.Context, eventID int64) error {
	if _, ok := s.events[eventID]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(s.events, eventID)
	return nil
}

func (s *fakeEventStore) GetRegistrationCounts(_ context.Context, _ []int64) (map[int64]int, error) {
	return map[int64]int{}, nil
}

func containsStatus(statuses []string, status models.EventStatus) bool {
	for _, s := range statuses {
		if s == string(status) {
			return true
		}
	}
	return false
}

func paginateEvents(events []models.Event, page, pageSize int) ([]models.Event, int64, error) {
	total := int64(len(events))
	start := (page - 1) * pageSize
	if start > len(events) {
		start = len(events)
	}
	end := start + pageSize
	if end > len(events) {
		end = len(events)
	}
	return events[start:end], total, nil
}

type fakeRegistrationStore struct {
	nextID int64
	rows   map[[2]int64]*models.Registration
	events *fakeEventStore
}

func newFakeRegistrationStore(events *fakeEventStore) *fakeRegistrationStore {
	return &fakeRegistrationStore{rows: make(map[[2]int64]*models.Registration), events: events}
}

func (s *fakeRegistrationStore) Create(_ context.Context, registration *models.Registration) error {
	key := [2]int64{registration.UserID, registration.EventID}
	if _, ok := s.rows[key]; ok {
		return apperrors.ErrAlreadyRegistered
	}
	s.nextID++
	registration.ID = s.nextID
	registration.CreatedAt = time.Now()
	stored := *registration
	s.rows[key] = &stored
	return nil
}

func (s *fakeRegistrationStore) GetByUserAndEvent(_ context.Context, userID, eventID int64) (*models.Registration, error) {
	row, ok := s.rows[[2]int64{userID, eventID}]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *fakeRegistrationStore) Delete(_ context.Context, userID, eventID int64) error {
	key := [2]int64{userID, eventID}
	if _, ok := s.rows[key]; !ok {
		return apperrors.ErrRegistrationNotFound
	}
	delete(s.rows, key)
	return nil
}

func (s *fakeRegistrationStore) CheckIn(_ context.Context, userID, eventID int64) (*models.Registration, error) {
	row, ok := s.rows[[2]int64{userID, eventID}]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	now := time.Now()
	row.HasJoined = true
	row.JoinedAt = &now
	copied := *row
	return &copied, nil
}

func (s *fakeRegistrationStore) GetByEventID(_ context.Context, eventID int64, page, pageSize int) ([]models.Registration, int64, error) {
	var matched []models.Registration
	for _, row := range s.rows {
		if row.EventID == eventID {
			matched = append(matched, *row)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (s *fakeRegistrationStore) GetByUserID(_ context.Context, userID int64, page, pageSize int) ([]models.Registration, int64, error) {
	var matched []models.Registration
	for _, row := range s.rows {
		if row.UserID == userID {
			matched = append(matched, *row)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (s *fakeRegistrationStore) CountByEventStatus(_ context.Context, userID int64) (map[models.EventStatus]int, error) {
	counts := make(map[models.EventStatus]int)
	for _, row := range s.rows {
		if row.UserID != userID {
			continue
		}
		if event, ok := s.events.events[row.EventID]; ok {
			counts[event.Status]++
		}
	}
	return counts, nil
}

func (s *fakeRegistrationStore) CountByUserID(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, row := range s.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeXPStore struct {
	profiles map[int64]*models.UserXP
	ledger   []models.PointsHistory
}

func newFakeXPStore() *fakeXPStore {
	return &fakeXPStore{profiles: make(map[int64]*models.UserXP)}
}

func (s *fakeXPStore) profile(userID int64) *models.UserXP {
	xp, ok := s.profiles[userID]
	if !ok {
		xp = &models.UserXP{UserID: userID, CurrentLevel: 1}
		s.profiles[userID] = xp
	}
	return xp
}

func (s *fakeXPStore) AwardXP(_ context.Context, userID int64, points int, reason string, eventID *int64) (*models.UserXP, bool, error) {
	s.ledger = append(s.ledger, models.PointsHistory{
		ID:        int64(len(s.ledger) + 1),
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		EventID:   eventID,
		CreatedAt: time.Now(),
	})

	xp := s.profile(userID)
	newTotal := xp.TotalXP + points
	clamped := false
	if newTotal < 0 {
		newTotal = 0
		clamped = true
	}
	xp.TotalXP = newTotal
	xp.CurrentLevel = models.LevelForXP(newTotal)
	xp.UpdatedAt = time.Now()

	copied := *xp
	return &copied, clamped, nil
}

func (s *fakeXPStore) RecordParticipation(_ context.Context, userID int64, wasteKg float64) (*models.UserXP, error) {
	xp := s.profile(userID)
	now := time.Now()
	xp.TotalEventsParticipated++
	xp.TotalWasteCollected += wasteKg
	xp.CurrentStreak++
	if xp.CurrentStreak > xp.LongestStreak {
		xp.LongestStreak = xp.CurrentStreak
	}
	xp.LastParticipated = &now
	xp.UpdatedAt = now

	copied := *xp
	return &copied, nil
}

func (s *fakeXPStore) GetByUserID(_ context.Context, userID int64) (*models.UserXP, error) {
	if xp, ok := s.profiles[userID]; ok {
		copied := *xp
		return &copied, nil
	}
	return &models.UserXP{UserID: userID, CurrentLevel: 1}, nil
}

func (s *fakeXPStore) GetHistory(_ context.Context, userID int64, page, pageSize int) ([]models.PointsHistory, int64, error) {
	var matched []models.PointsHistory
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if s.ledger[i].UserID == userID {
			matched = append(matched, s.ledger[i])
		}
	}
	total := int64(len(matched))
	if len(matched) > pageSize {
		matched = matched[:pageSize]
	}
	return matched, total, nil
}

func (s *fakeXPStore) GetLeaderboard(_ context.Context, page, pageSize int) ([]repositories.LeaderboardEntry, int64, error) {
	return nil, 0, nil
}

func (s *fakeXPStore) GetUserRank(_ context.Context, userID int64) (*repositories.LeaderboardEntry, error) {
	return nil, nil
}

type fakeBadgeStore struct {
	catalog []models.Badge
	earned  map[int64]map[int64]time.Time
}

// newFakeBadgeStore seeds the catalog from the built-in rules the same way
// the database seed step does.
func newFakeBadgeStore() *fakeBadgeStore {
	store := &fakeBadgeStore{earned: make(map[int64]map[int64]time.Time)}
	for i, rule := range BadgeRules() {
		store.catalog = append(store.catalog, models.Badge{
			ID:          int64(i + 1),
			Name:        rule.Name,
			Description: rule.Description,
			Category:    rule.Category,
			Rarity:      rule.Rarity,
			IconURL:     rule.IconURL,
		})
	}
	return store
}

func (s *fakeBadgeStore) GetAll(_ context.Context) ([]models.Badge, error) {
	return append([]models.Badge(nil), s.catalog...), nil
}

func (s *fakeBadgeStore) GetEarnedByUserID(_ context.Context, userID int64) (map[int64]time.Time, error) {
	earned := make(map[int64]time.Time, len(s.earned[userID]))
	for badgeID, at := range s.earned[userID] {
		earned[badgeID] = at
	}
	return earned, nil
}

func (s *fakeBadgeStore) Award(_ context.Context, userID, badgeID int64) (bool, error) {
	if _, already := s.earned[userID][badgeID]; already {
		return false, nil
	}
	if s.earned[userID] == nil {
		s.earned[userID] = make(map[int64]time.Time)
	}
	s.earned[userID][badgeID] = time.Now()
	return true, nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, userID int64, firstName, lastName string) error {
	return nil
}

func (s *fakeUserStore) UpdatePicture(_ context.Context, userID int64, picture *string) error {
	return nil
}

func (s *fakeUserStore) UpdateHomeLocation(_ context.Context, userID int64, latitude, longitude float64, locationName string) error {
	return nil
}

func (s *fakeUserStore) CompleteOnboarding(_ context.Context, userID int64, role models.RoleType, ngoID *int64, latitude, longitude float64, locationName string) error {
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64) error {
	return nil
}

func (s *fakeUserStore) GetAll(_ context.Context, role *string, search *string, page, pageSize int) ([]models.User, int64, error) {
	return nil, 0, nil
}

type fakeNGOStore struct {
	ngos map[int64]*models.NGO
}

func newFakeNGOStore() *fakeNGOStore {
	return &fakeNGOStore{ngos: make(map[int64]*models.NGO)}
}

func (s *fakeNGOStore) Create(_ context.Context, ngo *models.NGO) error {
	stored := *ngo
	s.ngos[ngo.ID] = &stored
	return nil
}

func (s *fakeNGOStore) GetByID(_ context.Context, id int64) (*models.NGO, error) {
	ngo, ok := s.ngos[id]
	if !ok {
		return nil, apperrors.ErrNGONotFound
	}
	copied := *ngo
	return &copied, nil
}

func (s *fakeNGOStore) Update(_ context.Context, id int64, name, contactNo, locationName *string, latitude, longitude *float64, organizationSize, establishmentYear *int) error {
	return nil
}

func (s *fakeNGOStore) GetStats(_ context.Context, ngoID int64) (*repositories.NGOStats, error) {
	return &repositories.NGOStats{}, nil
}

func (s *fakeNGOStore) GetMonthlyStats(_ context.Context, ngoID int64, since time.Time) ([]repositories.MonthlyStat, error) {
	return nil, nil
}

type fakeParticipationStore struct {
	nextID int64
	rows   map[[2]int64]*models.Participation
	regs   *fakeRegistrationStore
}

func newFakeParticipationStore(regs *fakeRegistrationStore) *fakeParticipationStore {
	return &fakeParticipationStore{rows: make(map[[2]int64]*models.Participation), regs: regs}
}

func (s *fakeParticipationStore) Create(_ context.Context, p *models.Participation) error {
	key := [2]int64{p.UserID, p.EventID}
	if _, ok := s.rows[key]; ok {
		return apperrors.ErrConflict
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	stored := *p
	s.rows[key] = &stored
	return nil
}

func (s *fakeParticipationStore) GetByID(_ context.Context, id int64) (*models.Participation, error) {
	for _, row := range s.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperrors.ErrParticipationNotFound
}

func (s *fakeParticipationStore) GetByUserAndEvent(_ context.Context, userID, eventID int64) (*models.Participation, error) {
	row, ok := s.rows[[2]int64{userID, eventID}]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *fakeParticipationStore) GetByEventID(_ context.Context, eventID int64, verified *bool, page, pageSize int) ([]models.Participation, int64, error) {
	var matched []models.Participation
	for _, row := range s.rows {
		if row.EventID != eventID {
			continue
		}
		if verified != nil && row.IsVerified != *verified {
			continue
		}
		matched = append(matched, *row)
	}
	return matched, int64(len(matched)), nil
}

func (s *fakeParticipationStore) GetByUserID(_ context.Context, userID int64, page, pageSize int) ([]models.Participation, int64, error) {
	var matched []models.Participation
	for _, row := range s.rows {
		if row.UserID == userID {
			matched = append(matched, *row)
		}
	}
	return matched, int64(len(matched)), nil
}

func (s *fakeParticipationStore) Verify(_ context.Context, participationID int64, bonusXP int) (*models.Participation, error) {
	for _, row := range s.rows {
		if row.ID == participationID {
			row.IsVerified = true
			row.XPEarned += bonusXP
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperrors.ErrParticipationNotFound
}

// CreateAttendanceRows inserts zero-waste rows for checked-in volunteers
// with no submission yet, matching the backfill query.
func (s *fakeParticipationStore) CreateAttendanceRows(_ context.Context, eventID int64) ([]int64, error) {
	var userIDs []int64
	for _, reg := range s.regs.rows {
		if reg.EventID != eventID || !reg.HasJoined {
			continue
		}
		key := [2]int64{reg.UserID, eventID}
		if _, ok := s.rows[key]; ok {
			continue
		}
		s.nextID++
		s.rows[key] = &models.Participation{
			ID:        s.nextID,
			UserID:    reg.UserID,
			EventID:   eventID,
			Attended:  true,
			CreatedAt: time.Now(),
		}
		userIDs = append(userIDs, reg.UserID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

func (s *fakeParticipationStore) TotalWasteByEventID(_ context.Context, eventID int64) (float64, error) {
	var total float64
	for _, row := range s.rows {
		if row.EventID == eventID {
			total += row.WasteCollectedKg
		}
	}
	return total, nil
}

type fakeFeedbackStore struct {
	nextID int64
	rows   []models.EventFeedback
}

func (s *fakeFeedbackStore) Create(_ context.Context, feedback *models.EventFeedback) error {
	s.nextID++
	feedback.ID = s.nextID
	s.rows = append(s.rows, *feedback)
	return nil
}

func (s *fakeFeedbackStore) GetByEventID(_ context.Context, eventID int64, page, pageSize int) ([]models.EventFeedback, int64, error) {
	var matched []models.EventFeedback
	for _, row := range s.rows {
		if row.EventID == eventID {
			matched = append(matched, row)
		}
	}
	return matched, int64(len(matched)), nil
}

func (s *fakeFeedbackStore) AverageRatingByEventID(_ context.Context, eventID int64) (float64, error) {
	var sum, count float64
	for _, row := range s.rows {
		if row.EventID == eventID {
			sum += float64(row.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

// serviceFixture wires the services over the in-memory stores the way
// bootstrap wires them over the pgx repositories.
type serviceFixture struct {
	events        *fakeEventStore
	registrations *fakeRegistrationStore
	participation *fakeParticipationStore
	feedback      *fakeFeedbackStore
	users         *fakeUserStore
	ngos          *fakeNGOStore
	xp            *fakeXPStore
	badges        *fakeBadgeStore

	cfg             *config.Config
	gamification    *GamificationService
	eventService    *EventService
	registrationSvc *RegistrationService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		events:   newFakeEventStore(),
		users:    newFakeUserStore(),
		ngos:     newFakeNGOStore(),
		xp:       newFakeXPStore(),
		badges:   newFakeBadgeStore(),
		feedback: &fakeFeedbackStore{},
		cfg:      &config.Config{},
	}
	f.registrations = newFakeRegistrationStore(f.events)
	f.participation = newFakeParticipationStore(f.registrations)

	logger := zerolog.Nop()
	f.gamification = NewGamificationService(f.xp, f.badges, f.registrations, logger)
	f.eventService = NewEventService(f.events, f.users, f.ngos, f.participation, f.feedback, f.gamification, logger)
	f.registrationSvc = NewRegistrationService(f.registrations, f.events, f.gamification, f.cfg, logger)
	return f
}

// seedOrganiser creates an organiser account attached to an NGO.
func (f *serviceFixture) seedOrganiser(userID, ngoID int64) {
	f.ngos.ngos[ngoID] = &models.NGO{ID: ngoID, Name: "Test NGO"}
	f.users.users[userID] = &models.User{
		ID:          userID,
		Email:       "organiser@example.com",
		Role:        models.RoleOrganiser,
		NGOID:       &ngoID,
		IsOnboarded: true,
		IsActive:    true,
	}
}

// seedEvent stores an event directly, bypassing the create flow.
func (f *serviceFixture) seedEvent(event *models.Event) *models.Event {
	f.events.nextID++
	if event.ID == 0 {
		event.ID = f.events.nextID
	}
	if event.JoinCode == "" {
		event.JoinCode = "JOIN" + string(rune('A'+event.ID%26)) + string(rune('A'+(event.ID/26)%26))
	}
	stored := *event
	f.events.events[event.ID] = &stored
	return event
}
