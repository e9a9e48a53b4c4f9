package models

import "time"

// Event represents a community clean-up event
type Event struct {
	ID            int64       `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	Description   string      `json:"description" db:"description"`
	CreatorID     int64       `json:"creatorId" db:"creator_id"`
	NGOID         int64       `json:"ngoId" db:"ngo_id"`
	Latitude      float64     `json:"latitude" db:"latitude"`
	Longitude     float64     `json:"longitude" db:"longitude"`
	LocationName  string      `json:"locationName" db:"location_name"`
	Date          time.Time   `json:"date" db:"date"`
	StartTime     *time.Time  `json:"startTime,omitempty" db:"start_time"`
	EndTime       *time.Time  `json:"endTime,omitempty" db:"end_time"`
	WasteTargetKg float64     `json:"wasteTargetKg" db:"waste_target_kg"`
	Status        EventStatus `json:"status" db:"status"`
	JoinCode      string      `json:"-" db:"join_code"` // revealed only to the creator
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator           *User   `json:"creator,omitempty"`
	NGO               *NGO    `json:"ngo,omitempty"`
	RegistrationCount int     `json:"registrationCount" db:"-"`
	DistanceKm        float64 `json:"-" db:"-"` // computed for proximity search, not persisted
}
