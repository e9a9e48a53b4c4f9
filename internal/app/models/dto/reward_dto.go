package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// RewardResponse represents a reward catalog entry annotated with the
// requesting user's redemption state
type RewardResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	PointsRequired int        `json:"pointsRequired"`
	IsActive       bool       `json:"isActive"`
	Redeemed       bool       `json:"redeemed"`
	RedeemedAt     *time.Time `json:"redeemedAt,omitempty"`
}

// RewardListResponse represents the reward catalog
type RewardListResponse struct {
	Rewards []RewardResponse `json:"rewards"`
}

// RedeemRewardResponse represents the outcome of a redemption
type RedeemRewardResponse struct {
	Reward      RewardResponse `json:"reward"`
	RemainingXP int            `json:"remainingXP"`
}

// FromReward converts a models.Reward to a RewardResponse
func FromReward(reward *models.Reward) RewardResponse {
	if reward == nil {
		return RewardResponse{}
	}
	return RewardResponse{
		ID:             reward.ID,
		Name:           reward.Name,
		Description:    reward.Description,
		Category:       reward.Category,
		PointsRequired: reward.PointsRequired,
		IsActive:       reward.IsActive,
	}
}
