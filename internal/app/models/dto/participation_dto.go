package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// --- Request DTOs ---

// SubmitParticipationRequest represents a waste collection submission for
// an ongoing event. The proof image is uploaded separately and referenced
// here by URL.
type SubmitParticipationRequest struct {
	WasteCollectedKg    float64  `json:"wasteCollectedKg" binding:"required,min=0"`
	WasteDescription    *string  `json:"wasteDescription,omitempty"`
	ProofImageURL       *string  `json:"proofImageUrl,omitempty"`
	AfterImageURL       *string  `json:"afterImageUrl,omitempty"`
	CollectionLatitude  *float64 `json:"collectionLatitude,omitempty" binding:"omitempty,min=-90,max=90"`
	CollectionLongitude *float64 `json:"collectionLongitude,omitempty" binding:"omitempty,min=-180,max=180"`
	CollectionLocation  *string  `json:"collectionLocation,omitempty"`
}

// VerifyParticipationRequest represents an organiser's verification of a
// submission. BonusXP is awarded on top of the participation XP.
type VerifyParticipationRequest struct {
	BonusXP int `json:"bonusXP" binding:"min=0,max=100"`
}

// SubmitFeedbackRequest represents post-event feedback
type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
	Category string `json:"category"`
	IsPublic bool   `json:"isPublic"`
}

// --- Response DTOs ---

// ParticipationResponse represents a participation record
type ParticipationResponse struct {
	ID                  int64          `json:"id"`
	UserID              int64          `json:"userId"`
	EventID             int64          `json:"eventId"`
	WasteCollectedKg    float64        `json:"wasteCollectedKg"`
	WasteDescription    *string        `json:"wasteDescription,omitempty"`
	ProofImageURL       *string        `json:"proofImageUrl,omitempty"`
	AfterImageURL       *string        `json:"afterImageUrl,omitempty"`
	CollectionLatitude  *float64       `json:"collectionLatitude,omitempty"`
	CollectionLongitude *float64       `json:"collectionLongitude,omitempty"`
	CollectionLocation  *string        `json:"collectionLocation,omitempty"`
	XPEarned            int            `json:"xpEarned"`
	Attended            bool           `json:"attended"`
	IsVerified          bool           `json:"isVerified"`
	CreatedAt           time.Time      `json:"createdAt"`
	User                *UserResponse  `json:"user,omitempty"`
	Event               *EventResponse `json:"event,omitempty"`
}

// ParticipationListResponse represents a list of participations
type ParticipationListResponse struct {
	Participations []ParticipationResponse `json:"participations"`
	PaginationInfo
}

// FeedbackResponse represents submitted event feedback
type FeedbackResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	EventID   int64     `json:"eventId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Category  string    `json:"category"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromParticipation converts a models.Participation to a ParticipationResponse
func FromParticipation(p *models.Participation) ParticipationResponse {
	if p == nil {
		return ParticipationResponse{}
	}
	resp := ParticipationResponse{
		ID:                  p.ID,
		UserID:              p.UserID,
		EventID:             p.EventID,
		WasteCollectedKg:    p.WasteCollectedKg,
		WasteDescription:    p.WasteDescription,
		ProofImageURL:       p.ProofImageURL,
		AfterImageURL:       p.AfterImageURL,
		CollectionLatitude:  p.CollectionLatitude,
		CollectionLongitude: p.CollectionLongitude,
		CollectionLocation:  p.CollectionLocation,
		XPEarned:            p.XPEarned,
		Attended:            p.Attended,
		IsVerified:          p.IsVerified,
		CreatedAt:           p.CreatedAt,
	}
	if p.User != nil {
		user := FromUser(p.User)
		resp.User = &user
	}
	if p.Event != nil {
		event := FromEvent(p.Event)
		resp.Event = &event
	}
	return resp
}

// FromFeedback converts a models.EventFeedback to a FeedbackResponse
func FromFeedback(f *models.EventFeedback) FeedbackResponse {
	if f == nil {
		return FeedbackResponse{}
	}
	return FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		EventID:   f.EventID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		Category:  f.Category,
		IsPublic:  f.IsPublic,
		CreatedAt: f.CreatedAt,
	}
}
