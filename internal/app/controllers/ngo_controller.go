package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
)

// NGOController handles NGO profile and statistics operations
type NGOController struct {
	ngoService *services.NGOService
	logger     zerolog.Logger
}

// NewNGOController creates a new NGOController
func NewNGOController(ngoService *services.NGOService, logger zerolog.Logger) *NGOController {
	return &NGOController{
		ngoService: ngoService,
		logger:     logger,
	}
}

// GetByID returns an NGO's public profile
// @Summary Get NGO
// @Tags ngos
// @Produce json
// @Security BearerAuth
// @Param id path int true "NGO ID"
// @Success 200 {object} dto.APIResponse{data=dto.NGOResponse} "NGO"
// @Failure 404 {object} dto.ErrorResponse "NGO not found"
// @Router /ngos/{id} [get]
func (c *NGOController) GetByID(ctx *gin.Context) {
	ngoID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	ngo, err := c.ngoService.GetByID(ctx.Request.Context(), ngoID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromNGO(ngo),
	})
}

// GetOwn returns the caller's NGO
// @Summary Get own NGO
// @Tags ngos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NGOResponse} "NGO"
// @Failure 403 {object} dto.ErrorResponse "Organiser role required"
// @Failure 404 {object} dto.ErrorResponse "Caller has no NGO"
// @Router /ngos/me [get]
func (c *NGOController) GetOwn(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	ngo, err := c.ngoService.GetOwn(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromNGO(ngo),
	})
}

// Update applies a partial update to the caller's NGO
// @Summary Update own NGO
// @Tags ngos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateNGORequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.NGOResponse} "Updated NGO"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Caller has no NGO"
// @Router /ngos/me [put]
func (c *NGOController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateNGORequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	ngo, err := c.ngoService.Update(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromNGO(ngo),
	})
}

// GetStats returns the caller's NGO impact statistics
// @Summary NGO statistics
// @Description Returns overall impact aggregates and a gap-free 12 month activity series
// @Tags ngos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NGOStatsResponse} "Statistics"
// @Failure 404 {object} dto.ErrorResponse "Caller has no NGO"
// @Router /ngos/me/stats [get]
func (c *NGOController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.ngoService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats})
}
