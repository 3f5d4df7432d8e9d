package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

const eventColumns = `id, title, COALESCE(description, ''), start_date, end_date, COALESCE(location, ''),
	COALESCE(category, ''), max_guests, organizer_id, organization_id, is_active, guest_count,
	COALESCE(metadata, '{}'::jsonb), status, published_at, created_at, updated_at`

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Category,
		&event.MaxGuests,
		&event.OrganizerID,
		&event.OrganizationID,
		&event.IsActive,
		&event.GuestCount,
		&event.Metadata,
		&event.Status,
		&event.PublishedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, start_date, end_date, location, category, max_guests,
			organizer_id, organization_id, is_active, guest_count, metadata, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		nullStringOrValue(event.Description),
		event.StartDate,
		event.EndDate,
		nullStringOrValue(event.Location),
		nullStringOrValue(event.Category),
		event.MaxGuests,
		event.OrganizerID,
		event.OrganizationID,
		event.IsActive,
		event.GuestCount,
		event.Metadata.OrEmpty(),
		event.Status,
		event.PublishedAt,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves an active event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1 AND is_active = TRUE", eventColumns)
	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedInput(err) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List returns active events with the organizer's name, newest first
func (r *PostgresEventRepository) List(ctx context.Context, organizerID string, limit, offset int) ([]*domain.EventListItem, int64, error) {
	whereClause := "WHERE e.is_active = TRUE"
	args := []interface{}{}
	argIndex := 1

	if organizerID != "" {
		whereClause += fmt.Sprintf(" AND e.organizer_id = $%d", argIndex)
		args = append(args, organizerID)
		argIndex++
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events e %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.title, e.start_date, COALESCE(e.location, ''), e.status, e.guest_count,
		       e.organizer_id, u.first_name, u.last_name, e.created_at
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		%s
		ORDER BY e.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*domain.EventListItem, 0)
	for rows.Next() {
		item := &domain.EventListItem{}
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.StartDate,
			&item.Location,
			&item.Status,
			&item.GuestCount,
			&item.OrganizerID,
			&item.OrganizerFirstName,
			&item.OrganizerLastName,
			&item.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// Update persists the mutable event fields
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, start_date = $4, end_date = $5, location = $6, category = $7,
		    max_guests = $8, metadata = $9, status = $10, published_at = $11, updated_at = $12
		WHERE id = $1 AND is_active = TRUE
	`
	result, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		nullStringOrValue(event.Description),
		event.StartDate,
		event.EndDate,
		nullStringOrValue(event.Location),
		nullStringOrValue(event.Category),
		event.MaxGuests,
		event.Metadata.OrEmpty(),
		event.Status,
		event.PublishedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", event.ID, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marks the event inactive
func (r *PostgresEventRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE events SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
		id, time.Now(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetGuestCount persists the denormalized count and returns the organizer id
func (r *PostgresEventRepository) SetGuestCount(ctx context.Context, id string, count int) (string, error) {
	var organizerID string
	err := r.pool.QueryRow(ctx,
		`UPDATE events SET guest_count = $2, updated_at = NOW() WHERE id = $1 RETURNING organizer_id`,
		id, count,
	).Scan(&organizerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
		}
		return "", err
	}
	return organizerID, nil
}
