package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name:   "same point",
			lat1:   19.0760, lon1: 72.8777,
			lat2: 19.0760, lon2: 72.8777,
			wantKm: 0, tolerance: 0.001,
		},
		{
			name:   "Mumbai to Pune",
			lat1:   19.0760, lon1: 72.8777,
			lat2: 18.5204, lon2: 73.8567,
			wantKm: 120, tolerance: 5,
		},
		{
			name:   "London to Paris",
			lat1:   51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm: 344, tolerance: 5,
		},
		{
			name:   "across the antimeridian",
			lat1:   0, lon1: 179.5,
			lat2: 0, lon2: -179.5,
			wantKm: 111, tolerance: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestHaversineKmSymmetry(t *testing.T) {
	forward := HaversineKm(19.0760, 72.8777, 28.6139, 77.2090)
	backward := HaversineKm(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, forward, backward, 0.0001)
}
