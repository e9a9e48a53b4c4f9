package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/db"
	"github.com/ecoquest/backend/internal/pkg/helpers"
)

// LeaderboardEntry is one ranked row of the XP leaderboard
type LeaderboardEntry struct {
	Rank                    int
	UserID                  int64
	FirstName               string
	LastName                string
	Picture                 *string
	TotalXP                 int
	CurrentLevel            int
	TotalEventsParticipated int
	TotalWasteCollected     float64
}

// XPRepository handles database operations for the gamification ledger.
// Awards write an append-only points_history row and fold the delta into
// the user_xp aggregate in the same transaction.
type XPRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewXPRepository creates a new XPRepository
func NewXPRepository(database *db.PostgresDB) *XPRepository {
	return &XPRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AwardXP appends a ledger entry and applies the signed delta to the user's
// aggregate. The aggregate is clamped at zero; the ledger records the entry
// as given so history stays auditable. The returned flag reports whether
// clamping occurred, meaning the ledger and the aggregate now disagree.
func (r *XPRepository) AwardXP(ctx context.Context, userID int64, points int, reason string, eventID *int64) (*models.UserXP, bool, error) {
	var result models.UserXP
	var clamped bool

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insertHistory := `
			INSERT INTO points_history (user_id, points, reason, event_id)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, insertHistory, userID, points, reason, eventID); err != nil {
			return fmt.Errorf("error inserting points history: %w", err)
		}

		ensure := `
			INSERT INTO user_xp (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, ensure, userID); err != nil {
			return fmt.Errorf("error ensuring xp row: %w", err)
		}

		var currentTotal int
		lock := `SELECT total_xp FROM user_xp WHERE user_id = $1 FOR UPDATE`
		if err := tx.QueryRow(ctx, lock, userID).Scan(&currentTotal); err != nil {
			return fmt.Errorf("error locking xp row: %w", err)
		}

		newTotal := currentTotal + points
		if newTotal < 0 {
			newTotal = 0
			clamped = true
		}

		update := `
			UPDATE user_xp
			SET total_xp = $2, current_level = $3, updated_at = NOW()
			WHERE user_id = $1
			RETURNING user_id, total_xp, current_level, total_events_participated,
				total_waste_collected, current_streak, longest_streak, last_participated, updated_at
		`
		err := tx.QueryRow(ctx, update, userID, newTotal, models.LevelForXP(newTotal)).Scan(
			&result.UserID,
			&result.TotalXP,
			&result.CurrentLevel,
			&result.TotalEventsParticipated,
			&result.TotalWasteCollected,
			&result.CurrentStreak,
			&result.LongestStreak,
			&result.LastParticipated,
			&result.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error updating xp aggregate: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &result, clamped, nil
}

// RecordParticipation folds a participation outcome into the aggregate:
// event count, waste total, and the daily streak. A second participation on
// the same day leaves the streak unchanged; a gap of more than one day
// resets it to 1.
func (r *XPRepository) RecordParticipation(ctx context.Context, userID int64, wasteKg float64) (*models.UserXP, error) {
	var result models.UserXP

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ensure := `
			INSERT INTO user_xp (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, ensure, userID); err != nil {
			return fmt.Errorf("error ensuring xp row: %w", err)
		}

		var current models.UserXP
		lock := `
			SELECT user_id, total_xp, current_level, total_events_participated,
				total_waste_collected, current_streak, longest_streak, last_participated, updated_at
			FROM user_xp WHERE user_id = $1 FOR UPDATE
		`
		err := tx.QueryRow(ctx, lock, userID).Scan(
			&current.UserID,
			&current.TotalXP,
			&current.CurrentLevel,
			&current.TotalEventsParticipated,
			&current.TotalWasteCollected,
			&current.CurrentStreak,
			&current.LongestStreak,
			&current.LastParticipated,
			&current.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error locking xp row: %w", err)
		}

		streak := nextStreak(&current)
		longest := current.LongestStreak
		if streak > longest {
			longest = streak
		}

		update := `
			UPDATE user_xp
			SET total_events_participated = total_events_participated + 1,
				total_waste_collected = total_waste_collected + $2,
				current_streak = $3,
				longest_streak = $4,
				last_participated = NOW(),
				updated_at = NOW()
			WHERE user_id = $1
			RETURNING user_id, total_xp, current_level, total_events_participated,
				total_waste_collected, current_streak, longest_streak, last_participated, updated_at
		`
		err = tx.QueryRow(ctx, update, userID, wasteKg, streak, longest).Scan(
			&result.UserID,
			&result.TotalXP,
			&result.CurrentLevel,
			&result.TotalEventsParticipated,
			&result.TotalWasteCollected,
			&result.CurrentStreak,
			&result.LongestStreak,
			&result.LastParticipated,
			&result.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error updating xp aggregate: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByUserID retrieves a user's XP aggregate. Users without a row get the
// zero-value profile at level 1.
func (r *XPRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserXP, error) {
	query := `
		SELECT user_id, total_xp, current_level, total_events_participated,
			total_waste_collected, current_streak, longest_streak, last_participated, updated_at
		FROM user_xp WHERE user_id = $1
	`

	var xp models.UserXP
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&xp.UserID,
		&xp.TotalXP,
		&xp.CurrentLevel,
		&xp.TotalEventsParticipated,
		&xp.TotalWasteCollected,
		&xp.CurrentStreak,
		&xp.LongestStreak,
		&xp.LastParticipated,
		&xp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.UserXP{UserID: userID, CurrentLevel: 1}, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &xp, nil
}

// GetHistory retrieves a user's points ledger, newest first
func (r *XPRepository) GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]models.PointsHistory, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT id, user_id, points, reason, event_id, created_at,
			COUNT(*) OVER() AS total_count
		FROM points_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var entries []models.PointsHistory
	var total int64
	for rows.Next() {
		var entry models.PointsHistory
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Points, &entry.Reason, &entry.EventID, &entry.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if entries == nil {
		entries = []models.PointsHistory{}
	}

	return entries, total, nil
}

// GetLeaderboard retrieves the XP leaderboard, highest totals first. Ties
// break on user ID for a stable order.
func (r *XPRepository) GetLeaderboard(ctx context.Context, page, pageSize int) ([]LeaderboardEntry, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			RANK() OVER (ORDER BY x.total_xp DESC, x.user_id) AS rank,
			x.user_id, u.first_name, u.last_name, u.picture,
			x.total_xp, x.current_level, x.total_events_participated, x.total_waste_collected,
			COUNT(*) OVER() AS total_count
		FROM user_xp x
		JOIN users u ON u.id = x.user_id
		WHERE u.is_active = TRUE
		ORDER BY x.total_xp DESC, x.user_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	var total int64
	for rows.Next() {
		var entry LeaderboardEntry
		err := rows.Scan(
			&entry.Rank, &entry.UserID, &entry.FirstName, &entry.LastName, &entry.Picture,
			&entry.TotalXP, &entry.CurrentLevel, &entry.TotalEventsParticipated, &entry.TotalWasteCollected,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if entries == nil {
		entries = []LeaderboardEntry{}
	}

	return entries, total, nil
}

// GetUserRank retrieves a single user's leaderboard entry
func (r *XPRepository) GetUserRank(ctx context.Context, userID int64) (*LeaderboardEntry, error) {
	query := `
		SELECT rank, user_id, first_name, last_name, picture,
			total_xp, current_level, total_events_participated, total_waste_collected
		FROM (
			SELECT
				RANK() OVER (ORDER BY x.total_xp DESC, x.user_id) AS rank,
				x.user_id, u.first_name, u.last_name, u.picture,
				x.total_xp, x.current_level, x.total_events_participated, x.total_waste_collected
			FROM user_xp x
			JOIN users u ON u.id = x.user_id
			WHERE u.is_active = TRUE
		) ranked
		WHERE user_id = $1
	`

	var entry LeaderboardEntry
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&entry.Rank, &entry.UserID, &entry.FirstName, &entry.LastName, &entry.Picture,
		&entry.TotalXP, &entry.CurrentLevel, &entry.TotalEventsParticipated, &entry.TotalWasteCollected,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &entry, nil
}

// nextStreak computes the new daily streak given the previous aggregate
func nextStreak(current *models.UserXP) int {
	if current.LastParticipated == nil {
		return 1
	}

	switch helpers.DaysBetween(*current.LastParticipated, time.Now()) {
	case 0:
		// Same day, streak unchanged
		if current.CurrentStreak == 0 {
			return 1
		}
		return current.CurrentStreak
	case 1:
		return current.CurrentStreak + 1
	default:
		return 1
	}
}
