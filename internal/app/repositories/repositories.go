package repositories

import (
	"github.com/ecoquest/backend/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	NGORepository           *NGORepository
	TokenRepository         *TokenRepository
	EventRepository         *EventRepository
	RegistrationRepository  *RegistrationRepository
	ParticipationRepository *ParticipationRepository
	FeedbackRepository      *FeedbackRepository
	XPRepository            *XPRepository
	BadgeRepository         *BadgeRepository
	RewardRepository        *RewardRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:          NewUserRepository(pool),
		NGORepository:           NewNGORepository(pool),
		TokenRepository:         NewTokenRepository(pool),
		EventRepository:         NewEventRepository(pool),
		RegistrationRepository:  NewRegistrationRepository(pool),
		ParticipationRepository: NewParticipationRepository(pool),
		FeedbackRepository:      NewFeedbackRepository(pool),
		XPRepository:            NewXPRepository(database),
		BadgeRepository:         NewBadgeRepository(pool),
		RewardRepository:        NewRewardRepository(database),
	}
}
