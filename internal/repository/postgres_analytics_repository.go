package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

// PostgresAnalyticsRepository implements AnalyticsRepository using PostgreSQL
type PostgresAnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAnalyticsRepository creates a new PostgresAnalyticsRepository
func NewPostgresAnalyticsRepository(pool *pgxpool.Pool) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{pool: pool}
}

// scope builds the active-event filter on alias e, numbering placeholders from 1
func scope(organizerID string) (string, []interface{}) {
	if organizerID == "" {
		return "e.is_active = TRUE", []interface{}{}
	}
	return "e.is_active = TRUE AND e.organizer_id = $1", []interface{}{organizerID}
}

func (r *PostgresAnalyticsRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountEvents counts active events
func (r *PostgresAnalyticsRepository) CountEvents(ctx context.Context, organizerID string) (int64, error) {
	where, args := scope(organizerID)
	return r.count(ctx, "SELECT COUNT(*) FROM events e WHERE "+where, args...)
}

// CountGuests counts guests of active events
func (r *PostgresAnalyticsRepository) CountGuests(ctx context.Context, organizerID string) (int64, error) {
	where, args := scope(organizerID)
	return r.count(ctx, "SELECT COUNT(*) FROM guests g JOIN events e ON e.id = g.event_id WHERE "+where, args...)
}

// CountAttendedGuests counts guests that are checked in or checked out
func (r *PostgresAnalyticsRepository) CountAttendedGuests(ctx context.Context, organizerID string) (int64, error) {
	where, args := scope(organizerID)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM guests g JOIN events e ON e.id = g.event_id
		WHERE %s AND g.status IN ('%s', '%s')
	`, where, domain.GuestStatusCheckedIn, domain.GuestStatusCheckedOut)
	return r.count(ctx, query, args...)
}

// CountCheckedInGuests counts guests currently on site
func (r *PostgresAnalyticsRepository) CountCheckedInGuests(ctx context.Context, organizerID string) (int64, error) {
	where, args := scope(organizerID)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM guests g JOIN events e ON e.id = g.event_id
		WHERE %s AND g.status = '%s'
	`, where, domain.GuestStatusCheckedIn)
	return r.count(ctx, query, args...)
}

// RecentEvents returns the newest active events
func (r *PostgresAnalyticsRepository) RecentEvents(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error) {
	where, args := scope(organizerID)
	query := fmt.Sprintf(`
		SELECT %s FROM events e
		WHERE %s
		ORDER BY e.created_at DESC
		LIMIT $%d
	`, eventColumns, where, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CheckInTimes returns check-in timestamps at or after since
func (r *PostgresAnalyticsRepository) CheckInTimes(ctx context.Context, organizerID string, since time.Time) ([]time.Time, error) {
	where, args := scope(organizerID)
	query := fmt.Sprintf(`
		SELECT g.check_in_time FROM guests g JOIN events e ON e.id = g.event_id
		WHERE %s AND g.check_in_time IS NOT NULL AND g.check_in_time >= $%d
		ORDER BY g.check_in_time ASC
	`, where, len(args)+1)
	args = append(args, since)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// EventStats splits active events into upcoming and past around now
func (r *PostgresAnalyticsRepository) EventStats(ctx context.Context, organizerID string, now time.Time) (*EventStats, error) {
	where, args := scope(organizerID)
	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE e.start_date > $%d),
		       COUNT(*) FILTER (WHERE e.start_date <= $%d)
		FROM events e
		WHERE %s
	`, len(args)+1, len(args)+1, where)
	args = append(args, now)

	stats := &EventStats{}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Upcoming, &stats.Past); err != nil {
		return nil, err
	}
	return stats, nil
}

// GuestStatusCounts groups guests of active events by status
func (r *PostgresAnalyticsRepository) GuestStatusCounts(ctx context.Context, organizerID string) (map[domain.GuestStatus]int64, error) {
	where, args := scope(organizerID)
	rows, err := r.pool.Query(ctx,
		"SELECT g.status, COUNT(*) FROM guests g JOIN events e ON e.id = g.event_id WHERE "+where+" GROUP BY g.status",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.GuestStatus]int64)
	for rows.Next() {
		var status domain.GuestStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
