package services

import (
	"context"
	"time"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/repositories"
)

// The services depend on narrow store interfaces rather than the concrete
// pgx repositories. The *repositories types satisfy these implicitly;
// tests substitute in-memory fakes.

// UserStore is the persistence surface for user accounts and profiles
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error
	UpdatePicture(ctx context.Context, userID int64, picture *string) error
	UpdateHomeLocation(ctx context.Context, userID int64, latitude, longitude float64, locationName string) error
	CompleteOnboarding(ctx context.Context, userID int64, role models.RoleType, ngoID *int64, latitude, longitude float64, locationName string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	GetAll(ctx context.Context, role *string, search *string, page, pageSize int) ([]models.User, int64, error)
}

// TokenStore is the persistence surface for refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// EventStore is the persistence surface for events
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.Event, error)
	GetAll(ctx context.Context, statuses []string, ngoID *int64, search *string, page, pageSize int) ([]models.Event, int64, error)
	GetByCreator(ctx context.Context, creatorID int64, page, pageSize int) ([]models.Event, int64, error)
	GetByStatuses(ctx context.Context, statuses []string) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, eventID int64, from, to models.EventStatus) error
	Delete(ctx context.Context, eventID int64) error
	GetRegistrationCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error)
}

// RegistrationStore is the persistence surface for event registrations
type RegistrationStore interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*models.Registration, error)
	Delete(ctx context.Context, userID, eventID int64) error
	CheckIn(ctx context.Context, userID, eventID int64) (*models.Registration, error)
	GetByEventID(ctx context.Context, eventID int64, page, pageSize int) ([]models.Registration, int64, error)
	GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Registration, int64, error)
	CountByEventStatus(ctx context.Context, userID int64) (map[models.EventStatus]int, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
}

// ParticipationStore is the persistence surface for waste collection records
type ParticipationStore interface {
	Create(ctx context.Context, p *models.Participation) error
	GetByID(ctx context.Context, id int64) (*models.Participation, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*models.Participation, error)
	GetByEventID(ctx context.Context, eventID int64, verified *bool, page, pageSize int) ([]models.Participation, int64, error)
	GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Participation, int64, error)
	Verify(ctx context.Context, participationID int64, bonusXP int) (*models.Participation, error)
	CreateAttendanceRows(ctx context.Context, eventID int64) ([]int64, error)
	TotalWasteByEventID(ctx context.Context, eventID int64) (float64, error)
}

// FeedbackStore is the persistence surface for event feedback
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.EventFeedback) error
	GetByEventID(ctx context.Context, eventID int64, page, pageSize int) ([]models.EventFeedback, int64, error)
	AverageRatingByEventID(ctx context.Context, eventID int64) (float64, error)
}

// XPStore is the persistence surface for the gamification ledger
type XPStore interface {
	AwardXP(ctx context.Context, userID int64, points int, reason string, eventID *int64) (*models.UserXP, bool, error)
	RecordParticipation(ctx context.Context, userID int64, wasteKg float64) (*models.UserXP, error)
	GetByUserID(ctx context.Context, userID int64) (*models.UserXP, error)
	GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]models.PointsHistory, int64, error)
	GetLeaderboard(ctx context.Context, page, pageSize int) ([]repositories.LeaderboardEntry, int64, error)
	GetUserRank(ctx context.Context, userID int64) (*repositories.LeaderboardEntry, error)
}

// BadgeStore is the persistence surface for the badge catalog and awards
type BadgeStore interface {
	GetAll(ctx context.Context) ([]models.Badge, error)
	GetEarnedByUserID(ctx context.Context, userID int64) (map[int64]time.Time, error)
	Award(ctx context.Context, userID, badgeID int64) (bool, error)
}

// RewardStore is the persistence surface for the reward catalog
type RewardStore interface {
	GetAllActive(ctx context.Context) ([]models.Reward, error)
	GetByID(ctx context.Context, id int64) (*models.Reward, error)
	GetRedemptionsByUserID(ctx context.Context, userID int64) (map[int64]time.Time, error)
	Redeem(ctx context.Context, userID int64, reward *models.Reward) (remainingXP int, err error)
}

// NGOStore is the persistence surface for NGOs and their statistics
type NGOStore interface {
	Create(ctx context.Context, ngo *models.NGO) error
	GetByID(ctx context.Context, id int64) (*models.NGO, error)
	Update(ctx context.Context, id int64, name, contactNo, locationName *string, latitude, longitude *float64, organizationSize, establishmentYear *int) error
	GetStats(ctx context.Context, ngoID int64) (*repositories.NGOStats, error)
	GetMonthlyStats(ctx context.Context, ngoID int64, since time.Time) ([]repositories.MonthlyStat, error)
}
