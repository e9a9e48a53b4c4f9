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
)

// MonthlyStat is one month's aggregate of an NGO's event activity
type MonthlyStat struct {
	Month            time.Time
	EventCount       int
	VolunteerCount   int
	WasteCollectedKg float64
}

// NGOStats aggregates an NGO's impact numbers
type NGOStats struct {
	TotalEvents         int
	CompletedEvents     int
	UpcomingEvents      int
	TotalVolunteers     int
	TotalWasteCollected float64
	AverageEventRating  float64
}

// NGORepository handles database operations for NGOs
type NGORepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNGORepository creates a new NGORepository
func NewNGORepository(db *pgxpool.Pool) *NGORepository {
	return &NGORepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var ngoColumns = []string{
	"id", "name", "contact_no", "latitude", "longitude", "location_name",
	"organization_size", "establishment_year", "created_at", "updated_at",
}

func scanNGO(row pgx.Row) (*models.NGO, error) {
	var ngo models.NGO
	err := row.Scan(
		&ngo.ID,
		&ngo.Name,
		&ngo.ContactNo,
		&ngo.Latitude,
		&ngo.Longitude,
		&ngo.LocationName,
		&ngo.OrganizationSize,
		&ngo.EstablishmentYear,
		&ngo.CreatedAt,
		&ngo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ngo, nil
}

// Create inserts a new NGO and sets its generated ID
func (r *NGORepository) Create(ctx context.Context, ngo *models.NGO) error {
	sql, args, err := r.sb.Insert("ngos").
		Columns("name", "contact_no", "latitude", "longitude", "location_name", "organization_size", "establishment_year").
		Values(ngo.Name, ngo.ContactNo, ngo.Latitude, ngo.Longitude, ngo.LocationName, ngo.OrganizationSize, ngo.EstablishmentYear).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&ngo.ID, &ngo.CreatedAt, &ngo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves an NGO by ID
func (r *NGORepository) GetByID(ctx context.Context, id int64) (*models.NGO, error) {
	sql, args, err := r.sb.Select(ngoColumns...).
		From("ngos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	ngo, err := scanNGO(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNGONotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return ngo, nil
}

// Update applies non-nil fields to an existing NGO
func (r *NGORepository) Update(ctx context.Context, id int64, name, contactNo, locationName *string, latitude, longitude *float64, organizationSize, establishmentYear *int) error {
	query := r.sb.Update("ngos").Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id})

	if name != nil {
		query = query.Set("name", *name)
	}
	if contactNo != nil {
		query = query.Set("contact_no", *contactNo)
	}
	if latitude != nil {
		query = query.Set("latitude", *latitude)
	}
	if longitude != nil {
		query = query.Set("longitude", *longitude)
	}
	if locationName != nil {
		query = query.Set("location_name", *locationName)
	}
	if organizationSize != nil {
		query = query.Set("organization_size", *organizationSize)
	}
	if establishmentYear != nil {
		query = query.Set("establishment_year", *establishmentYear)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNGONotFound
	}

	return nil
}

// GetStats aggregates an NGO's overall impact numbers
func (r *NGORepository) GetStats(ctx context.Context, ngoID int64) (*NGOStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_events,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed_events,
			COUNT(*) FILTER (WHERE status = 'UPCOMING') AS upcoming_events,
			COALESCE((
				SELECT COUNT(DISTINCT p.user_id)
				FROM participations p
				JOIN events e2 ON e2.id = p.event_id
				WHERE e2.ngo_id = $1
			), 0) AS total_volunteers,
			COALESCE((
				SELECT SUM(p.waste_collected_kg)
				FROM participations p
				JOIN events e2 ON e2.id = p.event_id
				WHERE e2.ngo_id = $1
			), 0) AS total_waste,
			COALESCE((
				SELECT AVG(f.rating)
				FROM event_feedback f
				JOIN events e2 ON e2.id = f.event_id
				WHERE e2.ngo_id = $1
			), 0) AS avg_rating
		FROM events
		WHERE ngo_id = $1
	`

	var stats NGOStats
	err := r.db.QueryRow(ctx, query, ngoID).Scan(
		&stats.TotalEvents,
		&stats.CompletedEvents,
		&stats.UpcomingEvents,
		&stats.TotalVolunteers,
		&stats.TotalWasteCollected,
		&stats.AverageEventRating,
	)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &stats, nil
}

// GetMonthlyStats returns per-month aggregates for the NGO's events since
// the given start of range. Months without activity are absent; callers
// fill the gaps.
func (r *NGORepository) GetMonthlyStats(ctx context.Context, ngoID int64, since time.Time) ([]MonthlyStat, error) {
	query := `
		SELECT
			date_trunc('month', e.date) AS month,
			COUNT(DISTINCT e.id) AS event_count,
			COUNT(DISTINCT p.user_id) AS volunteer_count,
			COALESCE(SUM(p.waste_collected_kg), 0) AS waste_collected
		FROM events e
		LEFT JOIN participations p ON p.event_id = e.id
		WHERE e.ngo_id = $1 AND e.date >= $2
		GROUP BY date_trunc('month', e.date)
		ORDER BY month
	`

	rows, err := r.db.Query(ctx, query, ngoID, since)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var stats []MonthlyStat
	for rows.Next() {
		var stat MonthlyStat
		if err := rows.Scan(&stat.Month, &stat.EventCount, &stat.VolunteerCount, &stat.WasteCollectedKg); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}
