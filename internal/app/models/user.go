package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID               int64      `json:"id" db:"id" example:"1"`                                      // Unique identifier for the user
	Email            string     `json:"email" db:"email" example:"volunteer@ecoquest.app"`           // User's email address
	Password         string     `json:"-" db:"password"`                                             // User's hashed password (excluded from JSON)
	FirstName        string     `json:"firstName" db:"first_name" example:"Asha"`                    // User's first name
	LastName         string     `json:"lastName" db:"last_name" example:"Patel"`                     // User's last name
	Role             RoleType   `json:"role" db:"role" example:"NORMAL"`                             // User's role (NORMAL, ORGANISER or ADMIN)
	NGOID            *int64     `json:"ngoId,omitempty" db:"ngo_id"`                                 // Affiliated NGO, set for organisers
	IsOnboarded      bool       `json:"isOnboarded" db:"is_onboarded" example:"true"`                // Whether the user completed onboarding
	IsActive         bool       `json:"isActive" db:"is_active" example:"true"`                      // Whether the user account is active
	Picture          *string    `json:"picture,omitempty" db:"picture"`                              // Profile picture URL (nullable)
	HomeLatitude     *float64   `json:"homeLatitude,omitempty" db:"home_latitude"`                   // Default latitude for proximity search
	HomeLongitude    *float64   `json:"homeLongitude,omitempty" db:"home_longitude"`                 // Default longitude for proximity search
	HomeLocationName *string    `json:"homeLocationName,omitempty" db:"home_location_name"`          // Display name for the home location
	CreatedAt        time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`    // Timestamp when the user was created
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`    // Timestamp when the user was last updated
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`                    // Timestamp of the last login (nullable)

	NGO *NGO `json:"ngo,omitempty"` // Relation, no db tag
}
