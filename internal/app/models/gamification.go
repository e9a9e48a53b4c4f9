package models

import "time"

// XPPerLevel is the fixed XP-per-level curve step.
const XPPerLevel = 100

// LevelForXP computes the level reached at a given XP total.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// UserXP is the per-user aggregate derived from the points history ledger.
// TotalXP never goes below zero; negative corrections are clamped.
type UserXP struct {
	UserID                  int64      `json:"userId" db:"user_id"`
	TotalXP                 int        `json:"totalXP" db:"total_xp"`
	CurrentLevel            int        `json:"currentLevel" db:"current_level"`
	TotalEventsParticipated int        `json:"totalEventsParticipated" db:"total_events_participated"`
	TotalWasteCollected     float64    `json:"totalWasteCollected" db:"total_waste_collected"`
	CurrentStreak           int        `json:"currentStreak" db:"current_streak"`
	LongestStreak           int        `json:"longestStreak" db:"longest_streak"`
	LastParticipated        *time.Time `json:"lastParticipated,omitempty" db:"last_participated"`
	UpdatedAt               time.Time  `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty"`
}

// PointsHistory is one append-only ledger row. Rows are never mutated or
// deleted; UserXP.TotalXP is derived from their sum.
type PointsHistory struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Points    int       `json:"points" db:"points"` // signed; negative entries are corrections
	Reason    string    `json:"reason" db:"reason"`
	EventID   *int64    `json:"eventId,omitempty" db:"event_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Event *Event `json:"event,omitempty"`
}

// Badge is a catalog entry describing an earnable achievement
type Badge struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Rarity      string    `json:"rarity" db:"rarity"`
	IconURL     string    `json:"iconUrl" db:"icon_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// UserBadge is the earned-join row, created exactly once per (user, badge)
type UserBadge struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"userId" db:"user_id"`
	BadgeID  int64     `json:"badgeId" db:"badge_id"`
	EarnedAt time.Time `json:"earnedAt" db:"earned_at"`

	Badge *Badge `json:"badge,omitempty"`
}
