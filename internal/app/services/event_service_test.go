package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateJoinCode()
		require.NoError(t, err)

		assert.Len(t, code, joinCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(joinCodeCharset, ch), "unexpected character %q in join code %q", ch, code)
		}
		seen[code] = true
	}

	// 50 draws from a 36^6 space colliding would point at a broken generator
	assert.Greater(t, len(seen), 45)
}

func TestStartOfDay(t *testing.T) {
	t.Run("truncates to UTC midnight", func(t *testing.T) {
		in := time.Date(2026, 8, 31, 17, 45, 12, 999, time.UTC)
		assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), startOfDay(in))
	})

	t.Run("uses the UTC calendar day", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		in := time.Date(2026, 9, 1, 2, 0, 0, 0, loc) // still Aug 31 in UTC
		assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), startOfDay(in))
	})
}

func seedUpcomingEvent(f *serviceFixture, creatorID, ngoID int64, date time.Time) *models.Event {
	return f.seedEvent(&models.Event{
		Title:         "Beach Cleanup",
		Description:   "Monthly shoreline cleanup with gloves provided",
		CreatorID:     creatorID,
		NGOID:         ngoID,
		Latitude:      41.02,
		Longitude:     28.97,
		LocationName:  "Caddebostan Beach",
		Date:          date,
		WasteTargetKg: 100,
		Status:        models.EventUpcoming,
	})
}

func TestEventLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	t.Run("start moves an upcoming event to ongoing", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		started, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventOngoing, started.Status)
		assert.NotNil(t, started.StartTime)
	})

	t.Run("starting twice fails the second attempt", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		_, err = f.eventService.Start(ctx, 1, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("cancel is only legal while upcoming", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		_, err = f.eventService.Cancel(ctx, 1, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("end requires an ongoing event", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.End(ctx, 1, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)

		_, err = f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		ended, err := f.eventService.End(ctx, 1, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventCompleted, ended.Status)
		assert.NotNil(t, ended.EndTime)
	})

	t.Run("only the creator can transition", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 99, event.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestEventUpdateStateGate(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)
	newTitle := "Beach Cleanup Extended"

	t.Run("ongoing events stay editable", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		updated, err := f.eventService.Update(ctx, 1, event.ID, &dto.UpdateEventRequest{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, models.EventOngoing, updated.Status)
	})

	t.Run("completed events reject updates", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)
		_, err = f.eventService.End(ctx, 1, event.ID)
		require.NoError(t, err)

		_, err = f.eventService.Update(ctx, 1, event.ID, &dto.UpdateEventRequest{Title: &newTitle})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("cancelled events reject updates", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Cancel(ctx, 1, event.ID)
		require.NoError(t, err)

		_, err = f.eventService.Update(ctx, 1, event.ID, &dto.UpdateEventRequest{Title: &newTitle})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestEventGetAllStatusDefault(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.seedOrganiser(1, 1)
	date := time.Now().Add(48 * time.Hour)

	for _, status := range []models.EventStatus{
		models.EventUpcoming, models.EventOngoing, models.EventCompleted, models.EventCancelled,
	} {
		event := seedUpcomingEvent(f, 1, 1, date)
		f.events.events[event.ID].Status = status
	}

	t.Run("without a filter only active events are listed", func(t *testing.T) {
		events, _, err := f.eventService.GetAll(ctx, &dto.EventFilterRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, event := range events {
			assert.Contains(t, []models.EventStatus{models.EventUpcoming, models.EventOngoing}, event.Status)
		}
	})

	t.Run("an explicit filter reaches finished events", func(t *testing.T) {
		status := string(models.EventCompleted)
		events, _, err := f.eventService.GetAll(ctx, &dto.EventFilterRequest{Status: &status, Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, models.EventCompleted, events[0].Status)
	})
}

func TestGetNearby(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.seedOrganiser(1, 1)
	date := time.Now().Add(48 * time.Hour)

	// Istanbul origin with events roughly 0, 40 and 350 km away.
	near := seedUpcomingEvent(f, 1, 1, date)
	mid := seedUpcomingEvent(f, 1, 1, date)
	f.events.events[mid.ID].Latitude = 40.78
	f.events.events[mid.ID].Longitude = 29.43
	far := seedUpcomingEvent(f, 1, 1, date)
	f.events.events[far.ID].Latitude = 39.93
	f.events.events[far.ID].Longitude = 32.86
	ongoing := seedUpcomingEvent(f, 1, 1, date)
	f.events.events[ongoing.ID].Status = models.EventOngoing
	finished := seedUpcomingEvent(f, 1, 1, date)
	f.events.events[finished.ID].Status = models.EventCompleted

	lat, lon := 41.02, 28.97

	t.Run("without a radius every active event is returned nearest first", func(t *testing.T) {
		events, _, err := f.eventService.GetNearby(ctx, &dto.NearbyEventsRequest{
			Latitude: &lat, Longitude: &lon, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, near.ID, events[0].ID)
		assert.Equal(t, far.ID, events[3].ID)
		for i := 1; i < len(events); i++ {
			assert.GreaterOrEqual(t, events[i].DistanceKm, events[i-1].DistanceKm)
		}
	})

	t.Run("a radius cuts off distant events", func(t *testing.T) {
		radius := 100.0
		events, _, err := f.eventService.GetNearby(ctx, &dto.NearbyEventsRequest{
			Latitude: &lat, Longitude: &lon, RadiusKm: &radius, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, events, 3)
		for _, event := range events {
			assert.LessOrEqual(t, event.DistanceKm, radius)
		}
	})

	t.Run("a status filter narrows to one lifecycle state", func(t *testing.T) {
		status := string(models.EventOngoing)
		events, _, err := f.eventService.GetNearby(ctx, &dto.NearbyEventsRequest{
			Latitude: &lat, Longitude: &lon, Status: &status, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ongoing.ID, events[0].ID)
	})

	t.Run("finished events never appear", func(t *testing.T) {
		events, _, err := f.eventService.GetNearby(ctx, &dto.NearbyEventsRequest{
			Latitude: &lat, Longitude: &lon, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		for _, event := range events {
			assert.NotEqual(t, finished.ID, event.ID)
		}
	})
}

// TestEventCompletionScenario walks the full volunteer journey: register,
// start, check in, end. The checked-in volunteer without a waste submission
// gets a zero-waste attendance row and their counters advance.
func TestEventCompletionScenario(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.seedOrganiser(1, 1)
	event := seedUpcomingEvent(f, 1, 1, time.Now().Add(48*time.Hour))
	volunteerID := int64(7)

	_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
	require.NoError(t, err)

	_, err = f.eventService.Start(ctx, 1, event.ID)
	require.NoError(t, err)

	checkedIn, err := f.registrationSvc.CheckIn(ctx, volunteerID, event.JoinCode)
	require.NoError(t, err)
	assert.True(t, checkedIn.HasJoined)

	_, err = f.eventService.End(ctx, 1, event.ID)
	require.NoError(t, err)

	// Registration +10 and check-in +20 land on the ledger.
	xp, err := f.gamification.GetProfile(ctx, volunteerID)
	require.NoError(t, err)
	assert.Equal(t, XPEventRegistration+XPEventCheckIn, xp.TotalXP)
	assert.Equal(t, 1, xp.TotalEventsParticipated)
	assert.Equal(t, 1, xp.CurrentStreak)

	// The backfilled attendance row carries no waste.
	row, err := f.participation.GetByUserAndEvent(ctx, volunteerID, event.ID)
	require.NoError(t, err)
	assert.True(t, row.Attended)
	assert.Zero(t, row.WasteCollectedKg)
}
