package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

const guestColumns = `id, first_name, last_name, email, COALESCE(phone, ''), event_id, COALESCE(notes, ''),
	check_in_time, check_out_time, COALESCE(metadata, '{}'::jsonb), status, created_at, updated_at`

// PostgresGuestRepository implements GuestRepository using PostgreSQL
type PostgresGuestRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGuestRepository creates a new PostgresGuestRepository
func NewPostgresGuestRepository(pool *pgxpool.Pool) *PostgresGuestRepository {
	return &PostgresGuestRepository{pool: pool}
}

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	guest := &domain.Guest{}
	err := row.Scan(
		&guest.ID,
		&guest.FirstName,
		&guest.LastName,
		&guest.Email,
		&guest.Phone,
		&guest.EventID,
		&guest.Notes,
		&guest.CheckInTime,
		&guest.CheckOutTime,
		&guest.Metadata,
		&guest.Status,
		&guest.CreatedAt,
		&guest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return guest, nil
}

func collectGuests(rows pgx.Rows) ([]*domain.Guest, error) {
	defer rows.Close()
	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// Create inserts a new guest
func (r *PostgresGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (id, first_name, last_name, email, phone, event_id, notes,
			check_in_time, check_out_time, metadata, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		guest.ID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		nullStringOrValue(guest.Phone),
		guest.EventID,
		nullStringOrValue(guest.Notes),
		guest.CheckInTime,
		guest.CheckOutTime,
		guest.Metadata.OrEmpty(),
		guest.Status,
		guest.CreatedAt,
		guest.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a guest by ID
func (r *PostgresGuestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := fmt.Sprintf("SELECT %s FROM guests WHERE id = $1", guestColumns)
	guest, err := scanGuest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedInput(err) {
			return nil, nil
		}
		return nil, err
	}
	return guest, nil
}

// List pages guests, newest first
func (r *PostgresGuestRepository) List(ctx context.Context, eventID string, limit, offset int) ([]*domain.Guest, int64, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if eventID != "" {
		whereClause += fmt.Sprintf(" AND event_id = $%d", argIndex)
		args = append(args, eventID)
		argIndex++
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM guests %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM guests
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, guestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	guests, err := collectGuests(rows)
	if err != nil {
		return nil, 0, err
	}
	return guests, total, nil
}

// ListByEvent returns every guest of an event in registration order
func (r *PostgresGuestRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	query := fmt.Sprintf("SELECT %s FROM guests WHERE event_id = $1 ORDER BY created_at ASC", guestColumns)
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return collectGuests(rows)
}

// Update persists every mutable guest field including status and timestamps
func (r *PostgresGuestRepository) Update(ctx context.Context, guest *domain.Guest) error {
	query := `
		UPDATE guests
		SET first_name = $2, last_name = $3, email = $4, phone = $5, notes = $6,
		    check_in_time = $7, check_out_time = $8, metadata = $9, status = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		guest.ID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		nullStringOrValue(guest.Phone),
		nullStringOrValue(guest.Notes),
		guest.CheckInTime,
		guest.CheckOutTime,
		guest.Metadata.OrEmpty(),
		guest.Status,
		guest.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guest %s: %w", guest.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the guest row
func (r *PostgresGuestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guest %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CountByEvent counts guests whose status is not no-show
func (r *PostgresGuestRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM guests WHERE event_id = $1 AND status <> $2`,
		eventID, domain.GuestStatusNoShow,
	).Scan(&count)
	return count, err
}
