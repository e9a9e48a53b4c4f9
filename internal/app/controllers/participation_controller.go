package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// ParticipationController handles waste collection submissions, review and
// post-event feedback
type ParticipationController struct {
	participationService *services.ParticipationService
	logger               zerolog.Logger
}

// NewParticipationController creates a new ParticipationController
func NewParticipationController(participationService *services.ParticipationService, logger zerolog.Logger) *ParticipationController {
	return &ParticipationController{
		participationService: participationService,
		logger:               logger,
	}
}

// Submit records a waste collection for an event
// @Summary Submit participation
// @Description Records the caller's waste collection for an ONGOING event. Requires a prior check-in.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.SubmitParticipationRequest true "Collection data"
// @Success 201 {object} dto.APIResponse{data=dto.ParticipationResponse} "Submission recorded"
// @Failure 403 {object} dto.ErrorResponse "Not checked in"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate submission or event not ONGOING"
// @Router /events/{id}/participations [post]
func (c *ParticipationController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	participation, err := c.participationService.Submit(ctx.Request.Context(), userID, eventID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Int64("eventID", eventID).Msg("Participation submission failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromParticipation(participation),
	})
}

// GetMine lists the caller's participations
// @Summary My participations
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationListResponse} "Participations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /participations/mine [get]
func (c *ParticipationController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	participations, pagination, err := c.participationService.GetByUser(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ParticipationListResponse{
		Participations: make([]dto.ParticipationResponse, len(participations)),
		PaginationInfo: pagination,
	}
	for i := range participations {
		resp.Participations[i] = dto.FromParticipation(&participations[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetByEvent lists an event's submissions for its creator
// @Summary List event participations
// @Description Review list for the event creator. Optionally filtered by verification state.
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param verified query bool false "Filter by verification state"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationListResponse} "Participations"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/participations [get]
func (c *ParticipationController) GetByEvent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var verified *bool
	if raw := ctx.Query("verified"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid verified parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		verified = &parsed
	}

	participations, pagination, err := c.participationService.GetByEvent(ctx.Request.Context(), userID, eventID, verified, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ParticipationListResponse{
		Participations: make([]dto.ParticipationResponse, len(participations)),
		PaginationInfo: pagination,
	}
	for i := range participations {
		resp.Participations[i] = dto.FromParticipation(&participations[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Verify confirms a submission
// @Summary Verify participation
// @Description Marks a submission verified and optionally grants bonus XP. Creator only; a second verification is rejected.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Participation ID"
// @Param request body dto.VerifyParticipationRequest true "Bonus XP"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationResponse} "Verified participation"
// @Failure 403 {object} dto.ErrorResponse "Not the event creator"
// @Failure 404 {object} dto.ErrorResponse "Participation not found"
// @Failure 409 {object} dto.ErrorResponse "Already verified"
// @Router /participations/{id}/verify [post]
func (c *ParticipationController) Verify(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	participationID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.VerifyParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	participation, err := c.participationService.Verify(ctx.Request.Context(), userID, participationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromParticipation(participation),
	})
}

// SubmitFeedback records post-event feedback
// @Summary Submit feedback
// @Description Records a rating for a COMPLETED event. One entry per participant.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} dto.APIResponse{data=dto.FeedbackResponse} "Feedback recorded"
// @Failure 403 {object} dto.ErrorResponse "Caller did not participate"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate feedback or event not COMPLETED"
// @Router /events/{id}/feedback [post]
func (c *ParticipationController) SubmitFeedback(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	feedback, err := c.participationService.SubmitFeedback(ctx.Request.Context(), userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromFeedback(feedback),
	})
}

// GetFeedback lists an event's public feedback
// @Summary List event feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse "Feedback entries"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/feedback [get]
func (c *ParticipationController) GetFeedback(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	entries, pagination, err := c.participationService.GetFeedback(ctx.Request.Context(), eventID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.FeedbackResponse, len(entries))
	for i := range entries {
		responses[i] = dto.FromFeedback(&entries[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{"feedback": responses, "pagination": pagination},
	})
}
