package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// RegistrationController handles event registration and check-in operations
type RegistrationController struct {
	registrationService *services.RegistrationService
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Register signs the caller up for an event
// @Summary Register for event
// @Description Registers the caller for an UPCOMING event and awards registration XP
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registration created"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or event not UPCOMING"
// @Router /events/{id}/register [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	registration, err := c.registrationService.Register(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromRegistration(registration),
	})
}

// Unregister removes the caller's registration
// @Summary Unregister from event
// @Description Removes the caller's registration from an UPCOMING event.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Registration removed"
// @Failure 404 {object} dto.ErrorResponse "Event or registration not found"
// @Failure 409 {object} dto.ErrorResponse "Event not UPCOMING"
// @Router /events/{id}/register [delete]
func (c *RegistrationController) Unregister(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.registrationService.Unregister(ctx.Request.Context(), userID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Registration removed"},
	})
}

// GetStatus reports the caller's registration state for an event
// @Summary Get own registration
// @Description Returns whether the caller is registered for the event, and the registration when present
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse} "Registration status"
// @Router /events/{id}/registration [get]
func (c *RegistrationController) GetStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	registration, err := c.registrationService.GetStatus(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := dto.RegistrationStatusResponse{Registered: registration != nil}
	if registration != nil {
		resp := dto.FromRegistration(registration)
		status.Registration = &resp
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: status})
}

// CheckIn marks the caller present at an ongoing event
// @Summary Check in with join code
// @Description Checks the caller in to an ONGOING event using its join code. Unregistered users are registered and checked in as one step.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckInRequest true "Join code"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Checked in"
// @Failure 404 {object} dto.ErrorResponse "Invalid join code"
// @Failure 409 {object} dto.ErrorResponse "Already checked in or event not ONGOING"
// @Router /events/check-in [post]
func (c *RegistrationController) CheckIn(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	registration, err := c.registrationService.CheckIn(ctx.Request.Context(), userID, req.JoinCode)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Check-in failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromRegistration(registration),
	})
}

// GetByEvent lists an event's registrations for its creator
// @Summary List event registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/registrations [get]
func (c *RegistrationController) GetByEvent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	registrations, pagination, err := c.registrationService.GetByEvent(ctx.Request.Context(), userID, eventID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RegistrationListResponse{
		Registrations:  make([]dto.RegistrationResponse, len(registrations)),
		PaginationInfo: pagination,
	}
	for i := range registrations {
		resp.Registrations[i] = dto.FromRegistration(&registrations[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetMine lists the caller's registrations
// @Summary My registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /registrations/mine [get]
func (c *RegistrationController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	registrations, pagination, err := c.registrationService.GetByUser(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RegistrationListResponse{
		Registrations:  make([]dto.RegistrationResponse, len(registrations)),
		PaginationInfo: pagination,
	}
	for i := range registrations {
		resp.Registrations[i] = dto.FromRegistration(&registrations[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
