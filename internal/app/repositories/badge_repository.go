package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/backend/internal/app/models"
)

// BadgeRepository handles database operations for badges
type BadgeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(db *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves the full badge catalog
func (r *BadgeRepository) GetAll(ctx context.Context) ([]models.Badge, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "category", "rarity", "icon_url", "created_at").
		From("badges").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var badge models.Badge
		err := rows.Scan(&badge.ID, &badge.Name, &badge.Description, &badge.Category, &badge.Rarity, &badge.IconURL, &badge.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		badges = append(badges, badge)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return badges, nil
}

// GetEarnedByUserID retrieves the badges a user has earned, keyed by badge ID
func (r *BadgeRepository) GetEarnedByUserID(ctx context.Context, userID int64) (map[int64]time.Time, error) {
	sql, args, err := r.sb.Select("badge_id", "earned_at").
		From("user_badges").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	earned := make(map[int64]time.Time)
	for rows.Next() {
		var badgeID int64
		var earnedAt time.Time
		if err := rows.Scan(&badgeID, &earnedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		earned[badgeID] = earnedAt
	}

	return earned, nil
}

// Award grants a badge to a user. Awarding is idempotent: re-awarding an
// already-earned badge affects no rows and reports newlyEarned false.
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID int64) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByName retrieves a badge by its unique name
func (r *BadgeRepository) GetByName(ctx context.Context, name string) (*models.Badge, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "category", "rarity", "icon_url", "created_at").
		From("badges").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var badge models.Badge
	err = r.db.QueryRow(ctx, sql, args...).Scan(&badge.ID, &badge.Name, &badge.Description, &badge.Category, &badge.Rarity, &badge.IconURL, &badge.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &badge, nil
}
