package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
)

// RewardController handles the reward catalog and redemption
type RewardController struct {
	rewardService *services.RewardService
	logger        zerolog.Logger
}

// NewRewardController creates a new RewardController
func NewRewardController(rewardService *services.RewardService, logger zerolog.Logger) *RewardController {
	return &RewardController{
		rewardService: rewardService,
		logger:        logger,
	}
}

// GetCatalog returns the active reward catalog
// @Summary List rewards
// @Description Returns active rewards annotated with the caller's redemption state
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RewardListResponse} "Rewards"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /rewards [get]
func (c *RewardController) GetCatalog(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	catalog, err := c.rewardService.GetCatalog(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: catalog})
}

// Redeem exchanges XP for a reward
// @Summary Redeem reward
// @Description Spends XP on a reward. Fails when the balance is insufficient or the reward was already redeemed.
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reward ID"
// @Success 200 {object} dto.APIResponse{data=dto.RedeemRewardResponse} "Redemption result"
// @Failure 400 {object} dto.ErrorResponse "Insufficient points"
// @Failure 404 {object} dto.ErrorResponse "Reward not found"
// @Failure 409 {object} dto.ErrorResponse "Already redeemed"
// @Router /rewards/{id}/redeem [post]
func (c *RewardController) Redeem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	rewardID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	result, err := c.rewardService.Redeem(ctx.Request.Context(), userID, rewardID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Int64("rewardID", rewardID).Msg("Redemption failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}
