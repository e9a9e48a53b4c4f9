package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipationXP(t *testing.T) {
	tests := []struct {
		name    string
		wasteKg float64
		want    int
	}{
		{"zero waste gets the base amount", 0, 50},
		{"whole kilograms", 4, 70},
		{"fractional kilograms round down", 2.5, 62},
		{"just under the next kilogram", 1.99, 59},
		{"large haul", 100, 550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParticipationXP(tt.wasteKg))
		})
	}
}
