package models

import "time"

// NGO defines a non-profit organization running clean-up events
type NGO struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	ContactNo         string    `json:"contactNo" db:"contact_no"`
	Latitude          float64   `json:"latitude" db:"latitude"`
	Longitude         float64   `json:"longitude" db:"longitude"`
	LocationName      string    `json:"locationName" db:"location_name"`
	OrganizationSize  int       `json:"organizationSize" db:"organization_size"`
	EstablishmentYear int       `json:"establishmentYear" db:"establishment_year"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
