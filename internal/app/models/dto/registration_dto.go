package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// CheckInRequest represents an on-site check-in using the event join code
type CheckInRequest struct {
	JoinCode string `json:"joinCode" binding:"required,len=6"`
}

// RegistrationResponse represents a user's registration for an event
type RegistrationResponse struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	EventID   int64          `json:"eventId"`
	HasJoined bool           `json:"hasJoined"`
	JoinedAt  *time.Time     `json:"joinedAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Event     *EventResponse `json:"event,omitempty"`
	User      *UserResponse  `json:"user,omitempty"`
}

// RegistrationStatusResponse reports whether the requester is registered
// for an event. Registration is set only when Registered is true.
type RegistrationStatusResponse struct {
	Registered   bool                  `json:"registered"`
	Registration *RegistrationResponse `json:"registration,omitempty"`
}

// RegistrationListResponse represents a list of registrations
type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	PaginationInfo
}

// FromRegistration converts a models.Registration to a RegistrationResponse
func FromRegistration(reg *models.Registration) RegistrationResponse {
	if reg == nil {
		return RegistrationResponse{}
	}
	resp := RegistrationResponse{
		ID:        reg.ID,
		UserID:    reg.UserID,
		EventID:   reg.EventID,
		HasJoined: reg.HasJoined,
		JoinedAt:  reg.JoinedAt,
		CreatedAt: reg.CreatedAt,
	}
	if reg.Event != nil {
		event := FromEvent(reg.Event)
		resp.Event = &event
	}
	if reg.User != nil {
		user := FromUser(reg.User)
		resp.User = &user
	}
	return resp
}
