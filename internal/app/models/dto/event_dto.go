package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data. Coordinates are
// pointers so that 0 (equator, prime meridian) survives the required check.
type CreateEventRequest struct {
	Title         string     `json:"title" binding:"required,min=3,max=255"`
	Description   string     `json:"description" binding:"required,min=10"`
	Latitude      *float64   `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude     *float64   `json:"longitude" binding:"required,min=-180,max=180"`
	LocationName  string     `json:"locationName" binding:"required"`
	Date          time.Time  `json:"date" binding:"required"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	WasteTargetKg float64    `json:"wasteTargetKg" binding:"required,gt=0,max=10000"`
}

// UpdateEventRequest represents event update data. Updates are rejected
// once the event reaches a terminal state.
type UpdateEventRequest struct {
	Title         *string    `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Description   *string    `json:"description,omitempty" binding:"omitempty,min=10"`
	Latitude      *float64   `json:"latitude,omitempty" binding:"omitempty,min=-90,max=90"`
	Longitude     *float64   `json:"longitude,omitempty" binding:"omitempty,min=-180,max=180"`
	LocationName  *string    `json:"locationName,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	WasteTargetKg *float64   `json:"wasteTargetKg,omitempty" binding:"omitempty,gt=0,max=10000"`
}

// EventFilterRequest represents event list filter parameters
type EventFilterRequest struct {
	Status   *string `form:"status,omitempty" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	NGOID    *int64  `form:"ngoId,omitempty"`
	Search   *string `form:"search,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// NearbyEventsRequest represents proximity search parameters. RadiusKm is
// optional; when omitted no distance cutoff is applied and results are
// simply ordered nearest first. Status narrows the search to one lifecycle
// state; without it both UPCOMING and ONGOING events are returned.
type NearbyEventsRequest struct {
	Latitude  *float64 `form:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `form:"longitude" binding:"required,min=-180,max=180"`
	RadiusKm  *float64 `form:"radiusKm,omitempty" binding:"omitempty,gt=0"`
	Status    *string  `form:"status,omitempty" binding:"omitempty,oneof=UPCOMING ONGOING"`
	Page      int      `form:"page,default=1" binding:"min=1"`
	PageSize  int      `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// EventResponse represents basic event information
type EventResponse struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	CreatorID         int64        `json:"creatorId"`
	NGOID             int64        `json:"ngoId"`
	Latitude          float64      `json:"latitude"`
	Longitude         float64      `json:"longitude"`
	LocationName      string       `json:"locationName"`
	Date              time.Time    `json:"date"`
	StartTime         *time.Time   `json:"startTime,omitempty"`
	EndTime           *time.Time   `json:"endTime,omitempty"`
	WasteTargetKg     float64      `json:"wasteTargetKg"`
	Status            string       `json:"status" enums:"UPCOMING,ONGOING,COMPLETED,CANCELLED"`
	RegistrationCount int          `json:"registrationCount"`
	NGO               *NGOResponse `json:"ngo,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// EventDetailResponse extends EventResponse with creator-only fields.
// JoinCode is populated only when the requester created the event.
type EventDetailResponse struct {
	EventResponse
	JoinCode   *string                  `json:"joinCode,omitempty"`
	Statistics *EventStatisticsResponse `json:"statistics,omitempty"`
}

// EventStatisticsResponse summarises collection progress and feedback for
// an event. ProgressPercentage is relative to the waste target and can
// exceed 100 when a target was beaten.
type EventStatisticsResponse struct {
	TotalWasteKg       float64 `json:"totalWasteKg"`
	ProgressPercentage float64 `json:"progressPercentage"`
	AverageRating      float64 `json:"averageRating"`
}

// NearbyEventResponse decorates an event with its distance from the
// search origin
type NearbyEventResponse struct {
	EventResponse
	DistanceKm float64 `json:"distanceKm"`
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	PaginationInfo
}

// NearbyEventListResponse represents a distance-ordered list of events
type NearbyEventListResponse struct {
	Events []NearbyEventResponse `json:"events"`
	PaginationInfo
}

// FromEvent converts a models.Event to an EventResponse
func FromEvent(event *models.Event) EventResponse {
	if event == nil {
		return EventResponse{}
	}
	resp := EventResponse{
		ID:                event.ID,
		Title:             event.Title,
		Description:       event.Description,
		CreatorID:         event.CreatorID,
		NGOID:             event.NGOID,
		Latitude:          event.Latitude,
		Longitude:         event.Longitude,
		LocationName:      event.LocationName,
		Date:              event.Date,
		StartTime:         event.StartTime,
		EndTime:           event.EndTime,
		WasteTargetKg:     event.WasteTargetKg,
		Status:            string(event.Status),
		RegistrationCount: event.RegistrationCount,
		CreatedAt:         event.CreatedAt,
		UpdatedAt:         event.UpdatedAt,
	}
	if event.NGO != nil {
		ngo := FromNGO(event.NGO)
		resp.NGO = &ngo
	}
	return resp
}

// FromEventForViewer converts an event to a detail response, including the
// join code when the viewer is the creator
func FromEventForViewer(event *models.Event, viewerID int64) EventDetailResponse {
	detail := EventDetailResponse{EventResponse: FromEvent(event)}
	if event != nil && event.CreatorID == viewerID {
		code := event.JoinCode
		detail.JoinCode = &code
	}
	return detail
}

// FromNearbyEvent converts an event carrying a computed distance
func FromNearbyEvent(event *models.Event) NearbyEventResponse {
	return NearbyEventResponse{
		EventResponse: FromEvent(event),
		DistanceKm:    event.DistanceKm,
	}
}
