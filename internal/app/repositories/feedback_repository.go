package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/dberrors"
)

// FeedbackRepository handles database operations for event feedback
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a feedback row. Unique per (user_id, event_id); duplicates
// surface ErrFeedbackExists.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.EventFeedback) error {
	sql, args, err := r.sb.Insert("event_feedback").
		Columns("user_id", "event_id", "rating", "comment", "category", "is_public").
		Values(feedback.UserID, feedback.EventID, feedback.Rating, feedback.Comment, feedback.Category, feedback.IsPublic).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrFeedbackExists
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByEventID retrieves public feedback for an event
func (r *FeedbackRepository) GetByEventID(ctx context.Context, eventID int64, page, pageSize int) ([]models.EventFeedback, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			f.id, f.user_id, f.event_id, f.rating, f.comment, f.category, f.is_public, f.created_at,
			u.id, u.email, u.first_name, u.last_name, u.role, u.picture,
			COUNT(*) OVER() AS total_count
		FROM event_feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.event_id = $1 AND f.is_public = TRUE
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, eventID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var feedbacks []models.EventFeedback
	var total int64
	for rows.Next() {
		var feedback models.EventFeedback
		var user models.User
		err := rows.Scan(
			&feedback.ID,
			&feedback.UserID,
			&feedback.EventID,
			&feedback.Rating,
			&feedback.Comment,
			&feedback.Category,
			&feedback.IsPublic,
			&feedback.CreatedAt,
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Role,
			&user.Picture,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		feedback.User = &user
		feedbacks = append(feedbacks, feedback)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if feedbacks == nil {
		feedbacks = []models.EventFeedback{}
	}

	return feedbacks, total, nil
}

// AverageRatingByEventID computes the average rating for an event
func (r *FeedbackRepository) AverageRatingByEventID(ctx context.Context, eventID int64) (float64, error) {
	sql, args, err := r.sb.Select("COALESCE(AVG(rating), 0)").
		From("event_feedback").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var avg float64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return avg, nil
}
