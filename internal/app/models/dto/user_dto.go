package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Role             string    `json:"role" enums:"NORMAL,ORGANISER,ADMIN"`
	NGOID            *int64    `json:"ngoId,omitempty"`
	IsOnboarded      bool      `json:"isOnboarded"`
	Picture          *string   `json:"picture,omitempty"`
	HomeLatitude     *float64  `json:"homeLatitude,omitempty"`
	HomeLongitude    *float64  `json:"homeLongitude,omitempty"`
	HomeLocationName *string   `json:"homeLocationName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`

	NGO *NGOResponse `json:"ngo,omitempty"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Role:             string(user.Role),
		NGOID:            user.NGOID,
		IsOnboarded:      user.IsOnboarded,
		Picture:          user.Picture,
		HomeLatitude:     user.HomeLatitude,
		HomeLongitude:    user.HomeLongitude,
		HomeLocationName: user.HomeLocationName,
		CreatedAt:        user.CreatedAt,
	}
	if user.NGO != nil {
		ngo := FromNGO(user.NGO)
		resp.NGO = &ngo
	}
	return resp
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// OnboardingRequest completes a user's profile after first sign-in. The
// location name is optional; when omitted it is resolved by reverse
// geocoding on a best effort basis.
type OnboardingRequest struct {
	Role             models.RoleType `json:"role" binding:"required,oneof=NORMAL ORGANISER"`
	HomeLatitude     float64         `json:"homeLatitude" binding:"required,min=-90,max=90"`
	HomeLongitude    float64         `json:"homeLongitude" binding:"required,min=-180,max=180"`
	HomeLocationName *string         `json:"homeLocationName,omitempty"`

	// Organiser-only NGO details
	NGOName              *string  `json:"ngoName,omitempty"`
	NGOContactNo         *string  `json:"ngoContactNo,omitempty"`
	NGOLatitude          *float64 `json:"ngoLatitude,omitempty" binding:"omitempty,min=-90,max=90"`
	NGOLongitude         *float64 `json:"ngoLongitude,omitempty" binding:"omitempty,min=-180,max=180"`
	NGOLocationName      *string  `json:"ngoLocationName,omitempty"`
	NGOOrganizationSize  *int     `json:"ngoOrganizationSize,omitempty" binding:"omitempty,min=1"`
	NGOEstablishmentYear *int     `json:"ngoEstablishmentYear,omitempty"`
}

// UpdateHomeLocationRequest represents a home location change
type UpdateHomeLocationRequest struct {
	Latitude     float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude    float64 `json:"longitude" binding:"required,min=-180,max=180"`
	LocationName *string `json:"locationName,omitempty"`
}

// LocationSearchRequest represents a free-text place lookup
type LocationSearchRequest struct {
	Query string `form:"query" binding:"required,min=2"`
	Limit int    `form:"limit,default=5" binding:"min=1,max=10"`
}

// PlaceResponse is one candidate from a location search
type PlaceResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// LocationSearchResponse represents ranked location search results
type LocationSearchResponse struct {
	Places []PlaceResponse `json:"places"`
}

// UserFilterRequest represents user list filter parameters
type UserFilterRequest struct {
	Role     *string `form:"role,omitempty" binding:"omitempty,oneof=NORMAL ORGANISER ADMIN"`
	Search   *string `form:"search,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	PaginationInfo
}
