package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

// bindingValidator mirrors gin's request binding, which validates the
// `binding` tag through the same validator.
func bindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validCreateEventRequest() CreateEventRequest {
	lat, lon := 41.02, 28.97
	return CreateEventRequest{
		Title:         "Beach Cleanup",
		Description:   "Monthly shoreline cleanup with gloves provided",
		Latitude:      &lat,
		Longitude:     &lon,
		LocationName:  "Caddebostan Beach",
		Date:          time.Now().Add(48 * time.Hour),
		WasteTargetKg: 100,
	}
}

func TestCreateEventRequestValidation(t *testing.T) {
	v := bindingValidator()

	tests := []struct {
		name    string
		mutate  func(req *CreateEventRequest)
		wantErr bool
	}{
		{"valid request", func(req *CreateEventRequest) {}, false},
		{"title too short", func(req *CreateEventRequest) { req.Title = "Go" }, true},
		{"title at the column limit", func(req *CreateEventRequest) { req.Title = strings.Repeat("a", 255) }, false},
		{"title over the column limit", func(req *CreateEventRequest) { req.Title = strings.Repeat("a", 256) }, true},
		{"description too short", func(req *CreateEventRequest) { req.Description = "cleanup" }, true},
		{"waste target zero", func(req *CreateEventRequest) { req.WasteTargetKg = 0 }, true},
		{"waste target negative", func(req *CreateEventRequest) { req.WasteTargetKg = -5 }, true},
		{"waste target at the cap", func(req *CreateEventRequest) { req.WasteTargetKg = 10000 }, false},
		{"waste target over the cap", func(req *CreateEventRequest) { req.WasteTargetKg = 10001 }, true},
		{"latitude zero is a real coordinate", func(req *CreateEventRequest) { *req.Latitude = 0 }, false},
		{"longitude zero is a real coordinate", func(req *CreateEventRequest) { *req.Longitude = 0 }, false},
		{"latitude missing", func(req *CreateEventRequest) { req.Latitude = nil }, true},
		{"longitude missing", func(req *CreateEventRequest) { req.Longitude = nil }, true},
		{"latitude out of range", func(req *CreateEventRequest) { *req.Latitude = 91 }, true},
		{"longitude out of range", func(req *CreateEventRequest) { *req.Longitude = -181 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateEventRequest()
			tt.mutate(&req)

			err := v.Struct(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateEventRequestValidation(t *testing.T) {
	v := bindingValidator()
	shortTitle := "Go"
	shortDescription := "cleanup"
	zeroTarget := 0.0

	tests := []struct {
		name    string
		req     UpdateEventRequest
		wantErr bool
	}{
		{"empty update is fine", UpdateEventRequest{}, false},
		{"short title rejected", UpdateEventRequest{Title: &shortTitle}, true},
		{"short description rejected", UpdateEventRequest{Description: &shortDescription}, true},
		{"zero waste target rejected", UpdateEventRequest{WasteTargetKg: &zeroTarget}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNearbyEventsRequestValidation(t *testing.T) {
	v := bindingValidator()
	lat, lon := 0.0, 0.0
	badStatus := "COMPLETED"
	okStatus := "ONGOING"

	t.Run("zero coordinates pass", func(t *testing.T) {
		req := NearbyEventsRequest{Latitude: &lat, Longitude: &lon, Page: 1, PageSize: 10}
		assert.NoError(t, v.Struct(req))
	})

	t.Run("coordinates are required", func(t *testing.T) {
		req := NearbyEventsRequest{Page: 1, PageSize: 10}
		assert.Error(t, v.Struct(req))
	})

	t.Run("only active statuses are searchable", func(t *testing.T) {
		req := NearbyEventsRequest{Latitude: &lat, Longitude: &lon, Status: &badStatus, Page: 1, PageSize: 10}
		assert.Error(t, v.Struct(req))

		req.Status = &okStatus
		assert.NoError(t, v.Struct(req))
	})
}
