package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/dberrors"
)

// RegistrationRepository handles database operations for event registrations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a registration row. The unique index on (user_id, event_id)
// is the authority for duplicates: concurrent inserts resolve to exactly one
// surviving row, the rest surface ErrAlreadyRegistered.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	sql, args, err := r.sb.Insert("event_registrations").
		Columns("user_id", "event_id", "has_joined").
		Values(registration.UserID, registration.EventID, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyRegistered
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByUserAndEvent retrieves a registration for a (user, event) pair
func (r *RegistrationRepository) GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	sql, args, err := r.sb.Select("id", "user_id", "event_id", "has_joined", "joined_at", "created_at").
		From("event_registrations").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var registration models.Registration
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&registration.ID,
		&registration.UserID,
		&registration.EventID,
		&registration.HasJoined,
		&registration.JoinedAt,
		&registration.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &registration, nil
}

// Delete removes a registration that has not been checked in. Checked-in
// registrations are immutable history and cannot be unregistered.
func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID int64) error {
	sql, args, err := r.sb.Delete("event_registrations").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID, "has_joined": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}

	return nil
}

// CheckIn marks a registration as joined. The has_joined condition makes
// this a compare-and-set: one concurrent check-in wins, repeats surface
// ErrAlreadyCheckedIn.
func (r *RegistrationRepository) CheckIn(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	sql, args, err := r.sb.Update("event_registrations").
		Set("has_joined", true).
		Set("joined_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID, "has_joined": false}).
		Suffix("RETURNING id, user_id, event_id, has_joined, joined_at, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var registration models.Registration
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&registration.ID,
		&registration.UserID,
		&registration.EventID,
		&registration.HasJoined,
		&registration.JoinedAt,
		&registration.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row updated: either never registered or already checked in
			existing, lookupErr := r.GetByUserAndEvent(ctx, userID, eventID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing.HasJoined {
				return nil, apperrors.ErrAlreadyCheckedIn
			}
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &registration, nil
}

// GetByEventID retrieves registrations for an event with participant details
func (r *RegistrationRepository) GetByEventID(ctx context.Context, eventID int64, page, pageSize int) ([]models.Registration, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			r.id, r.user_id, r.event_id, r.has_joined, r.joined_at, r.created_at,
			u.id, u.email, u.first_name, u.last_name, u.role, u.picture,
			COUNT(*) OVER() AS total_count
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, eventID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var registrations []models.Registration
	var total int64
	for rows.Next() {
		var registration models.Registration
		var user models.User
		err := rows.Scan(
			&registration.ID,
			&registration.UserID,
			&registration.EventID,
			&registration.HasJoined,
			&registration.JoinedAt,
			&registration.CreatedAt,
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
		registration.User = &user
		registrations = append(registrations, registration)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if registrations == nil {
		registrations = []models.Registration{}
	}

	return registrations, total, nil
}

// GetByUserID retrieves a user's registrations with event details
func (r *RegistrationRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Registration, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			r.id, r.user_id, r.event_id, r.has_joined, r.joined_at, r.created_at,
			e.id, e.title, e.description, e.creator_id, e.ngo_id, e.latitude, e.longitude,
			e.location_name, e.date, e.start_time, e.end_time, e.waste_target_kg,
			e.status, e.created_at, e.updated_at,
			COUNT(*) OVER() AS total_count
		FROM event_registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var registrations []models.Registration
	var total int64
	for rows.Next() {
		var registration models.Registration
		var event models.Event
		err := rows.Scan(
			&registration.ID,
			&registration.UserID,
			&registration.EventID,
			&registration.HasJoined,
			&registration.JoinedAt,
			&registration.CreatedAt,
			&event.ID,
			&event.Title,
			&event.Description,
			&event.CreatorID,
			&event.NGOID,
			&event.Latitude,
			&event.Longitude,
			&event.LocationName,
			&event.Date,
			&event.StartTime,
			&event.EndTime,
			&event.WasteTargetKg,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		registration.Event = &event
		registrations = append(registrations, registration)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if registrations == nil {
		registrations = []models.Registration{}
	}

	return registrations, total, nil
}

// GetCheckedInUserIDs retrieves user IDs that checked in to an event
func (r *RegistrationRepository) GetCheckedInUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventID, "has_joined": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, nil
}

// CountByEventStatus groups a user's registrations by the current status
// of the registered events
func (r *RegistrationRepository) CountByEventStatus(ctx context.Context, userID int64) (map[models.EventStatus]int, error) {
	sql, args, err := r.sb.Select("e.status", "COUNT(*)").
		From("event_registrations r").
		Join("events e ON e.id = r.event_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		GroupBy("e.status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EventStatus]int)
	for rows.Next() {
		var status models.EventStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[status] = count
	}

	return counts, nil
}

// CountByUserID counts a user's total registrations
func (r *RegistrationRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("event_registrations").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}
