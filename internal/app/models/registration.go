package models

import "time"

// Registration links a participant to an event.
// Unique per (user_id, event_id); the database index is the authority,
// concurrent duplicate inserts resolve to exactly one surviving row.
type Registration struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	EventID   int64      `json:"eventId" db:"event_id"`
	HasJoined bool       `json:"hasJoined" db:"has_joined"` // on-site check-in flag
	JoinedAt  *time.Time `json:"joinedAt,omitempty" db:"joined_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}
