package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/repositories"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// XP amounts for the actions that earn points
const (
	XPEventRegistration       = 10
	XPEventCheckIn            = 20
	XPParticipationBase       = 50
	XPPerKgWaste              = 5
	ReasonEventRegistration   = "Event Registration"
	ReasonRegistrationRemoved = "Registration Cancelled"
	ReasonEventCheckIn        = "Event Check-in"
	ReasonParticipation       = "Waste Collection"
	ReasonVerificationBonus   = "Verification Bonus"
)

// recentActivityLimit caps the ledger entries embedded in the stats overview
const recentActivityLimit = 5

// GamificationService handles XP, streaks, badges and the leaderboard
type GamificationService struct {
	xpRepo           XPStore
	badgeRepo        BadgeStore
	registrationRepo RegistrationStore
	rules            []BadgeRule
	logger           zerolog.Logger
}

// NewGamificationService creates a new GamificationService
func NewGamificationService(
	xpRepo XPStore,
	badgeRepo BadgeStore,
	registrationRepo RegistrationStore,
	logger zerolog.Logger,
) *GamificationService {
	return &GamificationService{
		xpRepo:           xpRepo,
		badgeRepo:        badgeRepo,
		registrationRepo: registrationRepo,
		rules:            BadgeRules(),
		logger:           logger,
	}
}

// AwardXP applies a signed XP delta and re-evaluates badge requirements.
// Badge evaluation is best effort; a failure there never rolls back the
// award itself.
func (s *GamificationService) AwardXP(ctx context.Context, userID int64, points int, reason string, eventID *int64) (*models.UserXP, error) {
	xp, clamped, err := s.xpRepo.AwardXP(ctx, userID, points, reason, eventID)
	if err != nil {
		return nil, err
	}
	if clamped {
		s.logger.Warn().Int64("userID", userID).Int("points", points).Str("reason", reason).
			Msg("XP total clamped at zero, ledger and aggregate disagree")
	}

	if _, err := s.EvaluateBadges(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Badge evaluation failed after XP award")
	}

	return xp, nil
}

// RecordParticipation advances the user's participation counters, waste
// total and daily streak, then re-evaluates badges
func (s *GamificationService) RecordParticipation(ctx context.Context, userID int64, wasteKg float64) error {
	if _, err := s.xpRepo.RecordParticipation(ctx, userID, wasteKg); err != nil {
		return err
	}

	if _, err := s.EvaluateBadges(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Badge evaluation failed after participation")
	}

	return nil
}

// GetProfile retrieves a user's XP profile. Users with no activity yet get
// a zero-value profile at level 1.
func (s *GamificationService) GetProfile(ctx context.Context, userID int64) (*models.UserXP, error) {
	return s.xpRepo.GetByUserID(ctx, userID)
}

// GetStats assembles the combined activity overview: XP profile,
// registration counts per event status, earned badge count and the most
// recent ledger entries
func (s *GamificationService) GetStats(ctx context.Context, userID int64) (*dto.UserStatsResponse, error) {
	xp, err := s.xpRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.registrationRepo.CountByEventStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	breakdown := dto.RegistrationBreakdownResponse{
		Upcoming:  statusCounts[models.EventUpcoming],
		Ongoing:   statusCounts[models.EventOngoing],
		Completed: statusCounts[models.EventCompleted],
		Cancelled: statusCounts[models.EventCancelled],
	}
	for _, count := range statusCounts {
		breakdown.Total += count
	}

	earned, err := s.badgeRepo.GetEarnedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.xpRepo.GetHistory(ctx, userID, 1, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	activity := make([]dto.PointsHistoryResponse, len(recent))
	for i := range recent {
		activity[i] = dto.FromPointsHistory(&recent[i])
	}

	return &dto.UserStatsResponse{
		XP:             dto.FromUserXP(xp),
		Registrations:  breakdown,
		BadgeCount:     len(earned),
		RecentActivity: activity,
	}, nil
}

// GetHistory retrieves the user's XP ledger, newest first
func (s *GamificationService) GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]models.PointsHistory, dto.PaginationInfo, error) {
	entries, total, err := s.xpRepo.GetHistory(ctx, userID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return entries, helpers.NewPaginationInfo(total, page, pageSize), nil
}

// GetLeaderboard retrieves a leaderboard page plus the requesting user's own
// rank, which is included even when it falls outside the page
func (s *GamificationService) GetLeaderboard(ctx context.Context, userID int64, page, pageSize int) (*dto.LeaderboardResponse, error) {
	rows, total, err := s.xpRepo.GetLeaderboard(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryResponse, len(rows))
	for i, row := range rows {
		entries[i] = leaderboardEntryResponse(row)
	}

	resp := &dto.LeaderboardResponse{
		Entries:        entries,
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}

	rank, err := s.xpRepo.GetUserRank(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Could not resolve caller rank")
	} else if rank != nil {
		entry := leaderboardEntryResponse(*rank)
		resp.UserRank = &entry
	}

	return resp, nil
}

// GetBadges retrieves the full badge catalog annotated with the user's
// earned state
func (s *GamificationService) GetBadges(ctx context.Context, userID int64) (*dto.BadgeListResponse, error) {
	badges, err := s.badgeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.badgeRepo.GetEarnedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BadgeListResponse{Badges: make([]dto.BadgeResponse, len(badges))}
	for i, badge := range badges {
		entry := dto.BadgeResponse{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Category:    badge.Category,
			Rarity:      badge.Rarity,
			IconURL:     badge.IconURL,
		}
		if earnedAt, ok := earned[badge.ID]; ok {
			entry.Earned = true
			at := earnedAt
			entry.EarnedAt = &at
		}
		resp.Badges[i] = entry
	}

	return resp, nil
}

// EvaluateBadges checks every badge requirement against the user's current
// stats and awards what is newly met. Awards are idempotent, so evaluating
// repeatedly or concurrently grants each badge at most once.
func (s *GamificationService) EvaluateBadges(ctx context.Context, userID int64) ([]models.Badge, error) {
	xp, err := s.xpRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	regCount, err := s.registrationRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := BadgeStats{UserID: userID, XP: *xp, RegistrationCount: regCount}

	catalog, err := s.badgeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Badge, len(catalog))
	for _, badge := range catalog {
		byName[badge.Name] = badge
	}
	earned, err := s.badgeRepo.GetEarnedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newlyEarned []models.Badge
	for _, rule := range s.rules {
		badge, ok := byName[rule.Name]
		if !ok {
			continue // catalog row not seeded
		}
		if _, already := earned[badge.ID]; already {
			continue
		}
		if !rule.Check(stats) {
			continue
		}

		awarded, err := s.badgeRepo.Award(ctx, userID, badge.ID)
		if err != nil {
			return newlyEarned, err
		}
		if awarded {
			s.logger.Info().Int64("userID", userID).Str("badge", badge.Name).Msg("Badge earned")
			newlyEarned = append(newlyEarned, badge)
		}
	}

	return newlyEarned, nil
}

func leaderboardEntryResponse(row repositories.LeaderboardEntry) dto.LeaderboardEntryResponse {
	return dto.LeaderboardEntryResponse{
		Rank:                    row.Rank,
		UserID:                  row.UserID,
		FirstName:               row.FirstName,
		LastName:                row.LastName,
		Picture:                 row.Picture,
		TotalXP:                 row.TotalXP,
		CurrentLevel:            row.CurrentLevel,
		TotalEventsParticipated: row.TotalEventsParticipated,
		TotalWasteCollected:     row.TotalWasteCollected,
	}
}
