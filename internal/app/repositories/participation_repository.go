package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
	"github.com/ecoquest/backend/internal/pkg/dberrors"
)

// ParticipationRepository handles database operations for participations
type ParticipationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var participationColumns = []string{
	"id", "user_id", "event_id", "waste_collected_kg", "waste_description",
	"proof_image_url", "after_image_url", "collection_latitude", "collection_longitude",
	"collection_location", "xp_earned", "attended", "is_verified", "created_at",
}

func scanParticipation(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.EventID,
		&p.WasteCollectedKg,
		&p.WasteDescription,
		&p.ProofImageURL,
		&p.AfterImageURL,
		&p.CollectionLatitude,
		&p.CollectionLongitude,
		&p.CollectionLocation,
		&p.XPEarned,
		&p.Attended,
		&p.IsVerified,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a participation row. Unique per (user_id, event_id);
// duplicates surface ErrParticipationExists.
func (r *ParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	sql, args, err := r.sb.Insert("participations").
		Columns("user_id", "event_id", "waste_collected_kg", "waste_description",
			"proof_image_url", "after_image_url", "collection_latitude", "collection_longitude",
			"collection_location", "xp_earned", "attended", "is_verified").
		Values(p.UserID, p.EventID, p.WasteCollectedKg, p.WasteDescription,
			p.ProofImageURL, p.AfterImageURL, p.CollectionLatitude, p.CollectionLongitude,
			p.CollectionLocation, p.XPEarned, p.Attended, p.IsVerified).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrParticipationExists
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves a participation by ID
func (r *ParticipationRepository) GetByID(ctx context.Context, id int64) (*models.Participation, error) {
	sql, args, err := r.sb.Select(participationColumns...).
		From("participations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// GetByUserAndEvent retrieves a participation for a (user, event) pair
func (r *ParticipationRepository) GetByUserAndEvent(ctx context.Context, userID, eventID int64) (*models.Participation, error) {
	sql, args, err := r.sb.Select(participationColumns...).
		From("participations").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// GetByEventID retrieves participations for an event with submitter
// details. A non-nil verified narrows the list to that verification state.
func (r *ParticipationRepository) GetByEventID(ctx context.Context, eventID int64, verified *bool, page, pageSize int) ([]models.Participation, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			p.id, p.user_id, p.event_id, p.waste_collected_kg, p.waste_description,
			p.proof_image_url, p.after_image_url, p.collection_latitude, p.collection_longitude,
			p.collection_location, p.xp_earned, p.attended, p.is_verified, p.created_at,
			u.id, u.email, u.first_name, u.last_name, u.role, u.picture,
			COUNT(*) OVER() AS total_count
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1 AND ($2::boolean IS NULL OR p.is_verified = $2)
		ORDER BY p.created_at
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, eventID, verified, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var participations []models.Participation
	var total int64
	for rows.Next() {
		var p models.Participation
		var user models.User
		err := rows.Scan(
			&p.ID, &p.UserID, &p.EventID, &p.WasteCollectedKg, &p.WasteDescription,
			&p.ProofImageURL, &p.AfterImageURL, &p.CollectionLatitude, &p.CollectionLongitude,
			&p.CollectionLocation, &p.XPEarned, &p.Attended, &p.IsVerified, &p.CreatedAt,
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.Picture,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		p.User = &user
		participations = append(participations, p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if participations == nil {
		participations = []models.Participation{}
	}

	return participations, total, nil
}

// GetByUserID retrieves a user's participations with event details
func (r *ParticipationRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]models.Participation, int64, error) {
	offset := (page - 1) * pageSize
	query := `
		SELECT
			p.id, p.user_id, p.event_id, p.waste_collected_kg, p.waste_description,
			p.proof_image_url, p.after_image_url, p.collection_latitude, p.collection_longitude,
			p.collection_location, p.xp_earned, p.attended, p.is_verified, p.created_at,
			e.id, e.title, e.description, e.creator_id, e.ngo_id, e.latitude, e.longitude,
			e.location_name, e.date, e.start_time, e.end_time, e.waste_target_kg,
			e.status, e.created_at, e.updated_at,
			COUNT(*) OVER() AS total_count
		FROM participations p
		JOIN events e ON e.id = p.event_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var participations []models.Participation
	var total int64
	for rows.Next() {
		var p models.Participation
		var event models.Event
		err := rows.Scan(
			&p.ID, &p.UserID, &p.EventID, &p.WasteCollectedKg, &p.WasteDescription,
			&p.ProofImageURL, &p.AfterImageURL, &p.CollectionLatitude, &p.CollectionLongitude,
			&p.CollectionLocation, &p.XPEarned, &p.Attended, &p.IsVerified, &p.CreatedAt,
			&event.ID, &event.Title, &event.Description, &event.CreatorID, &event.NGOID,
			&event.Latitude, &event.Longitude, &event.LocationName, &event.Date,
			&event.StartTime, &event.EndTime, &event.WasteTargetKg, &event.Status,
			&event.CreatedAt, &event.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		p.Event = &event
		participations = append(participations, p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if participations == nil {
		participations = []models.Participation{}
	}

	return participations, total, nil
}

// Verify marks a participation as verified and adds any bonus XP to its
// xp_earned total. The is_verified condition makes this a compare-and-set:
// a second verification attempt affects no rows.
func (r *ParticipationRepository) Verify(ctx context.Context, participationID int64, bonusXP int) (*models.Participation, error) {
	query := `
		UPDATE participations
		SET is_verified = TRUE, xp_earned = xp_earned + $2
		WHERE id = $1 AND is_verified = FALSE
		RETURNING id, user_id, event_id, waste_collected_kg, waste_description,
			proof_image_url, after_image_url, collection_latitude, collection_longitude,
			collection_location, xp_earned, attended, is_verified, created_at
	`

	p, err := scanParticipation(r.db.QueryRow(ctx, query, participationID, bonusXP))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, lookupErr := r.GetByID(ctx, participationID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing.IsVerified {
				return nil, apperrors.ErrConflict
			}
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// CreateAttendanceRows inserts zero-waste attendance rows for every user
// who checked in to the event but never submitted a collection, and returns
// the IDs of the users a row was created for. Existing submissions are
// untouched thanks to ON CONFLICT DO NOTHING.
func (r *ParticipationRepository) CreateAttendanceRows(ctx context.Context, eventID int64) ([]int64, error) {
	query := `
		INSERT INTO participations (user_id, event_id, waste_collected_kg, xp_earned, attended, is_verified)
		SELECT r.user_id, r.event_id, 0, 0, TRUE, FALSE
		FROM event_registrations r
		WHERE r.event_id = $1 AND r.has_joined = TRUE
		ON CONFLICT (user_id, event_id) DO NOTHING
		RETURNING user_id
	`

	rows, err := r.db.Query(ctx, query, eventID)
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

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return userIDs, nil
}

// CountByUserID counts a user's participations
func (r *ParticipationRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("participations").
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

// TotalWasteByEventID sums the waste collected at an event
func (r *ParticipationRepository) TotalWasteByEventID(ctx context.Context, eventID int64) (float64, error) {
	sql, args, err := r.sb.Select("COALESCE(SUM(waste_collected_kg), 0)").
		From("participations").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total float64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return total, nil
}
