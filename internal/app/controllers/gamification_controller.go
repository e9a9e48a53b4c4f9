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

// GamificationController handles XP, badge and leaderboard operations
type GamificationController struct {
	gamificationService *services.GamificationService
	logger              zerolog.Logger
}

// NewGamificationController creates a new GamificationController
func NewGamificationController(gamificationService *services.GamificationService, logger zerolog.Logger) *GamificationController {
	return &GamificationController{
		gamificationService: gamificationService,
		logger:              logger,
	}
}

// GetXP returns the caller's XP profile
// @Summary Get XP profile
// @Description Returns XP, level, streak and participation aggregates. Users with no activity get a level 1 zero profile.
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserXPResponse} "XP profile"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /gamification/xp [get]
func (c *GamificationController) GetXP(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	xp, err := c.gamificationService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromUserXP(xp),
	})
}

// GetStats returns the caller's combined activity overview
// @Summary Get activity stats
// @Description Returns the XP profile, registration counts per event status, badge count and recent ledger activity
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserStatsResponse} "Activity overview"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /gamification/stats [get]
func (c *GamificationController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.gamificationService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: stats,
	})
}

// GetHistory returns the caller's XP ledger
// @Summary XP history
// @Description Lists the caller's XP ledger entries, newest first
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PointsHistoryListResponse} "Ledger entries"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /gamification/history [get]
func (c *GamificationController) GetHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	entries, pagination, err := c.gamificationService.GetHistory(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.PointsHistoryListResponse{
		Entries:        make([]dto.PointsHistoryResponse, len(entries)),
		PaginationInfo: pagination,
	}
	for i := range entries {
		resp.Entries[i] = dto.FromPointsHistory(&entries[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetBadges returns the badge catalog with earned state
// @Summary Get badges
// @Description Returns every badge annotated with whether and when the caller earned it
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.BadgeListResponse} "Badges"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /gamification/badges [get]
func (c *GamificationController) GetBadges(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	badges, err := c.gamificationService.GetBadges(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: badges})
}

// GetLeaderboard returns the XP leaderboard
// @Summary Leaderboard
// @Description Returns a leaderboard page plus the caller's own rank even when outside the page
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.LeaderboardResponse} "Leaderboard"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /gamification/leaderboard [get]
func (c *GamificationController) GetLeaderboard(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	leaderboard, err := c.gamificationService.GetLeaderboard(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: leaderboard})
}
