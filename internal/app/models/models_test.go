package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from EventStatus
		to   EventStatus
		want bool
	}{
		{"upcoming to ongoing", EventUpcoming, EventOngoing, true},
		{"upcoming to cancelled", EventUpcoming, EventCancelled, true},
		{"upcoming to completed", EventUpcoming, EventCompleted, false},
		{"ongoing to completed", EventOngoing, EventCompleted, true},
		{"ongoing to cancelled", EventOngoing, EventCancelled, false},
		{"ongoing to upcoming", EventOngoing, EventUpcoming, false},
		{"completed is terminal", EventCompleted, EventOngoing, false},
		{"cancelled is terminal", EventCancelled, EventUpcoming, false},
		{"no self transition", EventUpcoming, EventUpcoming, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEventStatusIsTerminal(t *testing.T) {
	assert.False(t, EventUpcoming.IsTerminal())
	assert.False(t, EventOngoing.IsTerminal())
	assert.True(t, EventCompleted.IsTerminal())
	assert.True(t, EventCancelled.IsTerminal())
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    int
	}{
		{"zero XP is level 1", 0, 1},
		{"below first threshold", 99, 1},
		{"exactly one level", 100, 2},
		{"mid range", 250, 3},
		{"high total", 10000, 101},
		{"negative clamps to level 1", -50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForXP(tt.totalXP))
		})
	}
}
