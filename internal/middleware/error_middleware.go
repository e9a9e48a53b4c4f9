package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// funnel every service error through here so status codes and error codes
// stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	// Users
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")

	// Events
	case errors.Is(err, apperrors.ErrEventNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found")
	case errors.Is(err, apperrors.ErrInvalidState):
		respond(c, http.StatusConflict, dto.ErrorCodeInvalidEventState, "Operation not allowed in current event state")
	case errors.Is(err, apperrors.ErrInvalidJoinCode):
		respond(c, http.StatusNotFound, dto.ErrorCodeInvalidJoinCode, "Invalid join code")
	case errors.Is(err, apperrors.ErrEventDatePassed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeEventDatePassed, "Event date has already passed")

	// Registrations
	case errors.Is(err, apperrors.ErrRegistrationNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Registration not found")
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Already registered for this event")
	case errors.Is(err, apperrors.ErrAlreadyCheckedIn):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Already checked in to this event")
	case errors.Is(err, apperrors.ErrNotCheckedIn):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Check-in required first")

	// Participations
	case errors.Is(err, apperrors.ErrParticipationNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Participation not found")
	case errors.Is(err, apperrors.ErrParticipationExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Participation already submitted for this event")
	case errors.Is(err, apperrors.ErrFeedbackExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Feedback already submitted for this event")

	// Gamification
	case errors.Is(err, apperrors.ErrRewardNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Reward not found")
	case errors.Is(err, apperrors.ErrBadgeNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Badge not found")
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInsufficientPoints, "Insufficient points to redeem this reward")
	case errors.Is(err, apperrors.ErrAlreadyRedeemed):
		respond(c, http.StatusConflict, dto.ErrorCodeAlreadyRedeemed, "Reward already redeemed")

	// NGOs
	case errors.Is(err, apperrors.ErrNGONotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "NGO not found")

	// Generic
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err.Error())
	case errors.Is(err, apperrors.ErrInvalidEmail):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email address")
	case errors.Is(err, apperrors.ErrInvalidPassword):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password", err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request", err.Error())
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		respond(c, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Upstream service unavailable")

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func respondWithDetails(c *gin.Context, status int, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message)
	errorDetail = errorDetail.WithDetails(details)
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
