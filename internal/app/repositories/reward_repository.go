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
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/dberrors"
)

// RewardRepository handles database operations for rewards and redemptions
type RewardRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(database *db.PostgresDB) *RewardRepository {
	return &RewardRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAllActive retrieves the active reward catalog
func (r *RewardRepository) GetAllActive(ctx context.Context) ([]models.Reward, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "category", "points_required", "is_active", "created_at", "updated_at").
		From("rewards").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("points_required", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var reward models.Reward
		err := rows.Scan(&reward.ID, &reward.Name, &reward.Description, &reward.Category,
			&reward.PointsRequired, &reward.IsActive, &reward.CreatedAt, &reward.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		rewards = append(rewards, reward)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rewards, nil
}

// GetByID retrieves a reward by ID
func (r *RewardRepository) GetByID(ctx context.Context, id int64) (*models.Reward, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "category", "points_required", "is_active", "created_at", "updated_at").
		From("rewards").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var reward models.Reward
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&reward.ID, &reward.Name, &reward.Description,
		&reward.Category, &reward.PointsRequired, &reward.IsActive, &reward.CreatedAt, &reward.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRewardNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &reward, nil
}

// GetRedemptionsByUserID retrieves a user's redemptions keyed by reward ID
func (r *RewardRepository) GetRedemptionsByUserID(ctx context.Context, userID int64) (map[int64]time.Time, error) {
	sql, args, err := r.sb.Select("reward_id", "redeemed_at").
		From("user_rewards").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	redemptions := make(map[int64]time.Time)
	for rows.Next() {
		var rewardID int64
		var redeemedAt time.Time
		if err := rows.Scan(&rewardID, &redeemedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		redemptions[rewardID] = redeemedAt
	}

	return redemptions, nil
}

// Redeem performs a redemption atomically: it locks the user's XP row,
// verifies the balance, records the redemption, deducts the points, and
// appends the ledger entry. The unique index on (user_id, reward_id)
// rejects double redemption even under concurrency.
func (r *RewardRepository) Redeem(ctx context.Context, userID int64, reward *models.Reward) (remainingXP int, err error) {
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var totalXP int
		lock := `SELECT total_xp FROM user_xp WHERE user_id = $1 FOR UPDATE`
		if scanErr := tx.QueryRow(ctx, lock, userID).Scan(&totalXP); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return apperrors.ErrInsufficientPoints
			}
			return fmt.Errorf("error locking xp row: %w", scanErr)
		}

		if totalXP < reward.PointsRequired {
			return apperrors.ErrInsufficientPoints
		}

		insert := `INSERT INTO user_rewards (user_id, reward_id) VALUES ($1, $2)`
		if _, execErr := tx.Exec(ctx, insert, userID, reward.ID); execErr != nil {
			if dberrors.IsUniqueViolation(execErr) {
				return apperrors.ErrAlreadyRedeemed
			}
			return fmt.Errorf("error inserting redemption: %w", execErr)
		}

		deduct := `
			UPDATE user_xp
			SET total_xp = total_xp - $2,
				current_level = GREATEST(total_xp - $2, 0) / $3 + 1,
				updated_at = NOW()
			WHERE user_id = $1
			RETURNING total_xp
		`
		if scanErr := tx.QueryRow(ctx, deduct, userID, reward.PointsRequired, models.XPPerLevel).Scan(&remainingXP); scanErr != nil {
			return fmt.Errorf("error deducting points: %w", scanErr)
		}

		history := `
			INSERT INTO points_history (user_id, points, reason)
			VALUES ($1, $2, $3)
		`
		reason := fmt.Sprintf("Redeemed reward: %s", reward.Name)
		if _, execErr := tx.Exec(ctx, history, userID, -reward.PointsRequired, reason); execErr != nil {
			return fmt.Errorf("error inserting points history: %w", execErr)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return remainingXP, nil
}
