package models

import "time"

// Participation records a volunteer's waste collection outcome for an event.
// Created either by an explicit submission during an ONGOING event, or as a
// zero-waste attendance row when the organizer ends the event.
type Participation struct {
	ID                  int64      `json:"id" db:"id"`
	UserID              int64      `json:"userId" db:"user_id"`
	EventID             int64      `json:"eventId" db:"event_id"`
	WasteCollectedKg    float64    `json:"wasteCollectedKg" db:"waste_collected_kg"`
	WasteDescription    *string    `json:"wasteDescription,omitempty" db:"waste_description"`
	ProofImageURL       *string    `json:"proofImageUrl,omitempty" db:"proof_image_url"`
	AfterImageURL       *string    `json:"afterImageUrl,omitempty" db:"after_image_url"`
	CollectionLatitude  *float64   `json:"collectionLatitude,omitempty" db:"collection_latitude"`
	CollectionLongitude *float64   `json:"collectionLongitude,omitempty" db:"collection_longitude"`
	CollectionLocation  *string    `json:"collectionLocation,omitempty" db:"collection_location"`
	XPEarned            int        `json:"xpEarned" db:"xp_earned"`
	Attended            bool       `json:"attended" db:"attended"`
	IsVerified          bool       `json:"isVerified" db:"is_verified"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// EventFeedback is a participant's rating of a completed event, unique per (user, event)
type EventFeedback struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	Category  string    `json:"category" db:"category"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User *User `json:"user,omitempty"`
}
