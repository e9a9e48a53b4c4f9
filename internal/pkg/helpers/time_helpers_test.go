package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("not-a-duration", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-03", MonthKey(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-12", MonthKey(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthsBack(t *testing.T) {
	base := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("zero months is first of current month", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), MonthsBack(base, 0))
	})

	t.Run("crosses a year boundary", func(t *testing.T) {
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), MonthsBack(base, 11))
	})
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarDay(morning, evening))
	assert.False(t, SameCalendarDay(evening, nextDay))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day regardless of hour",
			a:    time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "adjacent days",
			a:    time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "reversed order is negative",
			a:    time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want: -1,
		},
		{
			name: "week apart",
			a:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC),
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}
