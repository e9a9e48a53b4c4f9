package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

// RewardService handles the reward catalog and XP redemption
type RewardService struct {
	rewardRepo RewardStore
	logger     zerolog.Logger
}

// NewRewardService creates a new RewardService
func NewRewardService(rewardRepo RewardStore, logger zerolog.Logger) *RewardService {
	return &RewardService{rewardRepo: rewardRepo, logger: logger}
}

// GetCatalog retrieves the active reward catalog annotated with the user's
// redemption state
func (s *RewardService) GetCatalog(ctx context.Context, userID int64) (*dto.RewardListResponse, error) {
	rewards, err := s.rewardRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}
	redemptions, err := s.rewardRepo.GetRedemptionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.RewardListResponse{Rewards: make([]dto.RewardResponse, len(rewards))}
	for i := range rewards {
		entry := dto.FromReward(&rewards[i])
		if redeemedAt, ok := redemptions[rewards[i].ID]; ok {
			entry.Redeemed = true
			at := redeemedAt
			entry.RedeemedAt = &at
		}
		resp.Rewards[i] = entry
	}

	return resp, nil
}

// Redeem exchanges XP for a reward. The balance check, redemption row and
// deduction happen in one transaction so a user can never spend the same
// points twice.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID int64) (*dto.RedeemRewardResponse, error) {
	reward, err := s.rewardRepo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, apperrors.ErrRewardNotFound
	}

	remainingXP, err := s.rewardRepo.Redeem(ctx, userID, reward)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("reward", reward.Name).Int("remainingXP", remainingXP).Msg("Reward redeemed")

	entry := dto.FromReward(reward)
	entry.Redeemed = true
	return &dto.RedeemRewardResponse{Reward: entry, RemainingXP: remainingXP}, nil
}
