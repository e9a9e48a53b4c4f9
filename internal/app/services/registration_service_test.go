package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)
	volunteerID := int64(7)

	t.Run("registers and awards xp", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		registration, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, volunteerID, registration.UserID)
		assert.False(t, registration.HasJoined)

		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, XPEventRegistration, xp.TotalXP)
	})

	t.Run("a second registration conflicts", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)

		_, err = f.registrationSvc.Register(ctx, volunteerID, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

		// No second award for the failed attempt.
		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, XPEventRegistration, xp.TotalXP)
	})

	t.Run("a past date is rejected even while upcoming", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, time.Now().Add(-48*time.Hour))

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrEventDatePassed)
	})

	t.Run("only upcoming events accept registrations", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)
		f.events.events[event.ID].Status = models.EventOngoing

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("an unknown event is not found", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.registrationSvc.Register(ctx, volunteerID, 404)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)
	volunteerID := int64(7)

	t.Run("removes an existing registration", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)

		require.NoError(t, f.registrationSvc.Unregister(ctx, volunteerID, event.ID))

		_, err = f.registrations.GetByUserAndEvent(ctx, volunteerID, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
	})

	t.Run("a missing registration is reported as not found", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		err := f.registrationSvc.Unregister(ctx, volunteerID, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
	})

	t.Run("xp is kept by default", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)
		require.NoError(t, f.registrationSvc.Unregister(ctx, volunteerID, event.ID))

		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, XPEventRegistration, xp.TotalXP)
	})

	t.Run("xp is taken back when retraction is configured", func(t *testing.T) {
		f := newServiceFixture()
		f.cfg.Gamification.RetractRegistrationXP = true
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)
		require.NoError(t, f.registrationSvc.Unregister(ctx, volunteerID, event.ID))

		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Zero(t, xp.TotalXP)

		// Both the award and the correction stay on the ledger.
		history, _, err := f.gamification.GetHistory(ctx, volunteerID, 1, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, -XPEventRegistration, history[0].Points)
		assert.Equal(t, ReasonRegistrationRemoved, history[0].Reason)
	})
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)
	volunteerID := int64(7)

	t.Run("marks a registered user present and awards xp", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.Register(ctx, volunteerID, event.ID)
		require.NoError(t, err)
		_, err = f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		registration, err := f.registrationSvc.CheckIn(ctx, volunteerID, event.JoinCode)
		require.NoError(t, err)
		assert.True(t, registration.HasJoined)
		assert.NotNil(t, registration.JoinedAt)

		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, XPEventRegistration+XPEventCheckIn, xp.TotalXP)
	})

	t.Run("a walk-in is registered and checked in as one step", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.eventService.Start(ctx, 1, event.ID)
		require.NoError(t, err)

		registration, err := f.registrationSvc.CheckIn(ctx, volunteerID, event.JoinCode)
		require.NoError(t, err)
		assert.True(t, registration.HasJoined)

		xp, err := f.gamification.GetProfile(ctx, volunteerID)
		require.NoError(t, err)
		assert.Equal(t, XPEventRegistration+XPEventCheckIn, xp.TotalXP)
	})

	t.Run("check-in needs an ongoing event", func(t *testing.T) {
		f := newServiceFixture()
		f.seedOrganiser(1, 1)
		event := seedUpcomingEvent(f, 1, 1, future)

		_, err := f.registrationSvc.CheckIn(ctx, volunteerID, event.JoinCode)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("a bad join code is rejected", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.registrationSvc.CheckIn(ctx, volunteerID, "NOPE99")
		assert.ErrorIs(t, err, apperrors.ErrInvalidJoinCode)
	})
}
