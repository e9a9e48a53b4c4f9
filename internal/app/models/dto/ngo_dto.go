package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// UpdateNGORequest represents NGO profile update data
type UpdateNGORequest struct {
	Name              *string  `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	ContactNo         *string  `json:"contactNo,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty" binding:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude,omitempty" binding:"omitempty,min=-180,max=180"`
	LocationName      *string  `json:"locationName,omitempty"`
	OrganizationSize  *int     `json:"organizationSize,omitempty" binding:"omitempty,min=1"`
	EstablishmentYear *int     `json:"establishmentYear,omitempty" binding:"omitempty,min=1800"`
}

// NGOResponse represents NGO information
type NGOResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ContactNo         string    `json:"contactNo"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	LocationName      string    `json:"locationName"`
	OrganizationSize  int       `json:"organizationSize"`
	EstablishmentYear int       `json:"establishmentYear"`
	CreatedAt         time.Time `json:"createdAt"`
}

// MonthlyStatResponse represents one month in the NGO activity series
type MonthlyStatResponse struct {
	Month            string  `json:"month" example:"2026-08"`
	EventCount       int     `json:"eventCount"`
	VolunteerCount   int     `json:"volunteerCount"`
	WasteCollectedKg float64 `json:"wasteCollectedKg"`
}

// NGOStatsResponse represents aggregate NGO impact statistics
type NGOStatsResponse struct {
	TotalEvents         int                   `json:"totalEvents"`
	CompletedEvents     int                   `json:"completedEvents"`
	UpcomingEvents      int                   `json:"upcomingEvents"`
	TotalVolunteers     int                   `json:"totalVolunteers"`
	TotalWasteCollected float64               `json:"totalWasteCollected"`
	AverageEventRating  float64               `json:"averageEventRating"`
	MonthlySeries       []MonthlyStatResponse `json:"monthlySeries"`
}

// FromNGO converts a models.NGO to an NGOResponse
func FromNGO(ngo *models.NGO) NGOResponse {
	if ngo == nil {
		return NGOResponse{}
	}
	return NGOResponse{
		ID:                ngo.ID,
		Name:              ngo.Name,
		ContactNo:         ngo.ContactNo,
		Latitude:          ngo.Latitude,
		Longitude:         ngo.Longitude,
		LocationName:      ngo.LocationName,
		OrganizationSize:  ngo.OrganizationSize,
		EstablishmentYear: ngo.EstablishmentYear,
		CreatedAt:         ngo.CreatedAt,
	}
}
