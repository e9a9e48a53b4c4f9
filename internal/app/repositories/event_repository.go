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

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var eventColumns = []string{
	"id", "title", "description", "creator_id", "ngo_id", "latitude", "longitude",
	"location_name", "date", "start_time", "end_time", "waste_target_kg",
	"status", "join_code", "created_at", "updated_at",
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
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
		&event.JoinCode,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event and sets its generated ID.
// Returns ErrConflict when the join code collides with an existing event;
// callers regenerate the code and retry.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "creator_id", "ngo_id", "latitude", "longitude",
			"location_name", "date", "start_time", "end_time", "waste_target_kg", "status", "join_code").
		Values(event.Title, event.Description, event.CreatorID, event.NGOID, event.Latitude, event.Longitude,
			event.LocationName, event.Date, event.StartTime, event.EndTime, event.WasteTargetKg, event.Status, event.JoinCode).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "events_join_code_key") {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return event, nil
}

// GetByJoinCode retrieves an event by its join code
func (r *EventRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"join_code": joinCode}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidJoinCode
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return event, nil
}

// GetAll retrieves events in the given lifecycle states with filtering
// and pagination
func (r *EventRepository) GetAll(ctx context.Context, statuses []string, ngoID *int64, search *string, page, pageSize int) ([]models.Event, int64, error) {
	query := r.sb.Select(append(append([]string{}, eventColumns...), "COUNT(*) OVER() AS total_count")...).
		From("events")

	if len(statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": statuses})
	}
	if ngoID != nil {
		query = query.Where(squirrel.Eq{"ngo_id": *ngoID})
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"location_name": pattern},
		})
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("date DESC", "id DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectEventsWithTotal(rows)
}

// GetByCreator retrieves events created by a specific user
func (r *EventRepository) GetByCreator(ctx context.Context, creatorID int64, page, pageSize int) ([]models.Event, int64, error) {
	offset := (page - 1) * pageSize
	sql, args, err := r.sb.Select(append(append([]string{}, eventColumns...), "COUNT(*) OVER() AS total_count")...).
		From("events").
		Where(squirrel.Eq{"creator_id": creatorID}).
		OrderBy("date DESC", "id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectEventsWithTotal(rows)
}

// GetByStatuses retrieves all events in any of the given lifecycle states.
// Used by proximity search, which orders by computed distance afterwards.
func (r *EventRepository) GetByStatuses(ctx context.Context, statuses []string) ([]models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"status": statuses}).
		OrderBy("date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// Update applies editable fields to an event. The status condition makes
// this a compare-and-set: COMPLETED and CANCELLED events reject updates.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("latitude", event.Latitude).
		Set("longitude", event.Longitude).
		Set("location_name", event.LocationName).
		Set("date", event.Date).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("waste_target_kg", event.WasteTargetKg).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{
			"id":     event.ID,
			"status": []models.EventStatus{models.EventUpcoming, models.EventOngoing},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// UpdateStatus performs a compare-and-set lifecycle transition. The WHERE
// clause on the expected status guarantees at most one concurrent caller
// wins; losers see zero rows affected and get ErrInvalidState.
func (r *EventRepository) UpdateStatus(ctx context.Context, eventID int64, from, to models.EventStatus) error {
	now := time.Now()
	builder := r.sb.Update("events").
		Set("status", to).
		Set("updated_at", now)

	// Record the actual start and end moments on the transitions that define them.
	switch to {
	case models.EventOngoing:
		builder = builder.Set("start_time", now)
	case models.EventCompleted:
		builder = builder.Set("end_time", now)
	}

	sql, args, err := builder.
		Where(squirrel.Eq{"id": eventID, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// Delete removes an event, permitted only while it is UPCOMING
func (r *EventRepository) Delete(ctx context.Context, eventID int64) error {
	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": eventID, "status": models.EventUpcoming}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// GetRegistrationCounts retrieves the registration count for multiple events
func (r *EventRepository) GetRegistrationCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if len(eventIDs) == 0 {
		return make(map[int64]int), nil
	}

	sql, args, err := r.sb.Select("event_id", "COUNT(*)").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventIDs}).
		GroupBy("event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[eventID] = count
	}

	return counts, nil
}

func collectEventsWithTotal(rows pgx.Rows) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
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
			&event.JoinCode,
			&event.CreatedAt,
			&event.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if events == nil {
		events = []models.Event{}
	}

	return events, total, nil
}
