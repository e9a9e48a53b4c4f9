package dto

import (
	"time"

	"github.com/ecoquest/backend/internal/app/models"
)

// UserXPResponse represents a user's gamification profile
type UserXPResponse struct {
	UserID                  int64      `json:"userId"`
	TotalXP                 int        `json:"totalXP"`
	CurrentLevel            int        `json:"currentLevel"`
	XPForNextLevel          int        `json:"xpForNextLevel"`
	TotalEventsParticipated int        `json:"totalEventsParticipated"`
	TotalWasteCollected     float64    `json:"totalWasteCollected"`
	CurrentStreak           int        `json:"currentStreak"`
	LongestStreak           int        `json:"longestStreak"`
	LastParticipated        *time.Time `json:"lastParticipated,omitempty"`
}

// PointsHistoryResponse represents one XP ledger entry
type PointsHistoryResponse struct {
	ID        int64     `json:"id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	EventID   *int64    `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PointsHistoryListResponse represents a paginated XP ledger
type PointsHistoryListResponse struct {
	Entries []PointsHistoryResponse `json:"entries"`
	PaginationInfo
}

// RegistrationBreakdownResponse counts a user's registrations grouped by
// the current status of the registered events
type RegistrationBreakdownResponse struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// UserStatsResponse is the combined activity overview for a user: XP and
// participation aggregates, registration counts and the latest ledger
// entries
type UserStatsResponse struct {
	XP             UserXPResponse                `json:"xp"`
	Registrations  RegistrationBreakdownResponse `json:"registrations"`
	BadgeCount     int                           `json:"badgeCount"`
	RecentActivity []PointsHistoryResponse       `json:"recentActivity"`
}

// BadgeResponse represents a badge catalog entry
type BadgeResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Rarity      string     `json:"rarity"`
	IconURL     string     `json:"iconUrl"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earnedAt,omitempty"`
}

// BadgeListResponse represents the badge catalog annotated with the
// requesting user's earned state
type BadgeListResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

// LeaderboardEntryResponse represents one leaderboard row
type LeaderboardEntryResponse struct {
	Rank                    int     `json:"rank"`
	UserID                  int64   `json:"userId"`
	FirstName               string  `json:"firstName"`
	LastName                string  `json:"lastName"`
	Picture                 *string `json:"picture,omitempty"`
	TotalXP                 int     `json:"totalXP"`
	CurrentLevel            int     `json:"currentLevel"`
	TotalEventsParticipated int     `json:"totalEventsParticipated"`
	TotalWasteCollected     float64 `json:"totalWasteCollected"`
}

// LeaderboardResponse represents the XP leaderboard with the requesting
// user's own rank included even when outside the page.
type LeaderboardResponse struct {
	Entries  []LeaderboardEntryResponse `json:"entries"`
	UserRank *LeaderboardEntryResponse  `json:"userRank,omitempty"`
	PaginationInfo
}

// FromUserXP converts a models.UserXP to a UserXPResponse
func FromUserXP(xp *models.UserXP) UserXPResponse {
	if xp == nil {
		return UserXPResponse{}
	}
	return UserXPResponse{
		UserID:                  xp.UserID,
		TotalXP:                 xp.TotalXP,
		CurrentLevel:            xp.CurrentLevel,
		XPForNextLevel:          xp.CurrentLevel*models.XPPerLevel - xp.TotalXP,
		TotalEventsParticipated: xp.TotalEventsParticipated,
		TotalWasteCollected:     xp.TotalWasteCollected,
		CurrentStreak:           xp.CurrentStreak,
		LongestStreak:           xp.LongestStreak,
		LastParticipated:        xp.LastParticipated,
	}
}

// FromPointsHistory converts a models.PointsHistory to a PointsHistoryResponse
func FromPointsHistory(entry *models.PointsHistory) PointsHistoryResponse {
	if entry == nil {
		return PointsHistoryResponse{}
	}
	return PointsHistoryResponse{
		ID:        entry.ID,
		Points:    entry.Points,
		Reason:    entry.Reason,
		EventID:   entry.EventID,
		CreatedAt: entry.CreatedAt,
	}
}
