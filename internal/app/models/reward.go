package models

import "time"

// Reward is a redeemable catalog item priced in XP points.
type Reward struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Category       string    `json:"category" db:"category"`
	PointsRequired int       `json:"pointsRequired" db:"points_required"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// UserReward records a redemption. A user can redeem each reward at most
// once; uniqueness is enforced by a DB index on (user_id, reward_id).
type UserReward struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	RewardID   int64     `json:"rewardId" db:"reward_id"`
	RedeemedAt time.Time `json:"redeemedAt" db:"redeemed_at"`

	Reward *Reward `json:"reward,omitempty"`
}
