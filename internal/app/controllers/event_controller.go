package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// EventController handles event lifecycle and discovery operations
type EventController struct {
	eventService *services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// Create creates a new event
// @Summary Create event
// @Description Creates an UPCOMING event for the organiser's NGO. The join code is generated server-side and returned only to the creator.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventDetailResponse} "Created event"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or past date"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Organiser role required"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Event creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromEventForViewer(event, userID),
	})
}

// GetAll lists events with filters
// @Summary List events
// @Description Lists events. Without a status filter only UPCOMING and ONGOING events are returned.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(UPCOMING, ONGOING, COMPLETED, CANCELLED)
// @Param ngoId query int false "Filter by NGO"
// @Param search query string false "Search title and location"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Router /events [get]
func (c *EventController) GetAll(ctx *gin.Context) {
	var req dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	events, pagination, err := c.eventService.GetAll(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: eventListResponse(events, pagination)})
}

// GetNearby lists active events ordered by distance
// @Summary Nearby events
// @Description Lists UPCOMING and ONGOING events nearest first from the given origin. Without a radius no distance cutoff is applied.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Origin latitude"
// @Param longitude query number true "Origin longitude"
// @Param radiusKm query number false "Maximum distance in kilometers"
// @Param status query string false "Filter by status" Enums(UPCOMING, ONGOING)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.NearbyEventListResponse} "Events with distances"
// @Failure 400 {object} dto.ErrorResponse "Invalid coordinates"
// @Router /events/nearby [get]
func (c *EventController) GetNearby(ctx *gin.Context) {
	var req dto.NearbyEventsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	events, pagination, err := c.eventService.GetNearby(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NearbyEventListResponse{
		Events:         make([]dto.NearbyEventResponse, len(events)),
		PaginationInfo: pagination,
	}
	for i := range events {
		resp.Events[i] = dto.FromNearbyEvent(&events[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetMine lists the caller's own events
// @Summary My events
// @Description Lists the events the caller created, join codes included
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse "Events"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /events/mine [get]
func (c *EventController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	events, pagination, err := c.eventService.GetByCreator(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	details := make([]dto.EventDetailResponse, len(events))
	for i := range events {
		details[i] = dto.FromEventForViewer(&events[i], userID)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{"events": details, "pagination": pagination},
	})
}

// GetByID retrieves one event
// @Summary Get event
// @Description Returns event details. The join code is included only for the creator.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.GetByID(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail := dto.FromEventForViewer(event, userID)
	detail.Statistics = c.eventService.GetStatistics(ctx.Request.Context(), event)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: detail,
	})
}

// Update applies a partial update to an event
// @Summary Update event
// @Description Updates an UPCOMING event. Only the creator may update; later states reject the change.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Updated event"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not UPCOMING"
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromEventForViewer(event, userID),
	})
}

// Delete removes an event
// @Summary Delete event
// @Description Deletes an UPCOMING event. Started or finished events cannot be removed.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not UPCOMING"
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.Delete(ctx.Request.Context(), userID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Event deleted"},
	})
}

// Start begins an event
// @Summary Start event
// @Description Moves an UPCOMING event to ONGOING. Check-ins and submissions open.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Started event"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not UPCOMING"
// @Router /events/{id}/start [post]
func (c *EventController) Start(ctx *gin.Context) {
	c.transition(ctx, c.eventService.Start)
}

// Cancel calls off an event
// @Summary Cancel event
// @Description Moves an UPCOMING event to CANCELLED. Started events cannot be cancelled.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Cancelled event"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not UPCOMING"
// @Router /events/{id}/cancel [post]
func (c *EventController) Cancel(ctx *gin.Context) {
	c.transition(ctx, c.eventService.Cancel)
}

// End finishes an event
// @Summary End event
// @Description Moves an ONGOING event to COMPLETED and records attendance for checked-in volunteers without a submission
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Completed event"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not ONGOING"
// @Router /events/{id}/end [post]
func (c *EventController) End(ctx *gin.Context) {
	c.transition(ctx, c.eventService.End)
}

type transitionFn func(ctx context.Context, userID, eventID int64) (*models.Event, error)

func (c *EventController) transition(ctx *gin.Context, fn transitionFn) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	event, err := fn(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromEventForViewer(event, userID),
	})
}

func eventListResponse(events []models.Event, pagination dto.PaginationInfo) dto.EventListResponse {
	resp := dto.EventListResponse{
		Events:         make([]dto.EventResponse, len(events)),
		PaginationInfo: pagination,
	}
	for i := range events {
		resp.Events[i] = dto.FromEvent(&events[i])
	}
	return resp
}
