package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

const organizationColumns = `id, name, slug, subdomain, COALESCE(settings, '{}'::jsonb), is_active, plan, created_at, updated_at`

// PostgresOrganizationRepository implements OrganizationRepository using PostgreSQL
type PostgresOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrganizationRepository creates a new PostgresOrganizationRepository
func NewPostgresOrganizationRepository(pool *pgxpool.Pool) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{pool: pool}
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	org := &domain.Organization{}
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Subdomain,
		&org.Settings,
		&org.IsActive,
		&org.Plan,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return org, nil
}

// Create inserts a new organization
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, subdomain, settings, is_active, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.Subdomain,
		org.Settings.OrEmpty(),
		org.IsActive,
		org.Plan,
		org.CreatedAt,
		org.UpdatedAt,
	)
	return mapError(err)
}

func (r *PostgresOrganizationRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Organization, error) {
	query := fmt.Sprintf("SELECT %s FROM organizations WHERE %s = $1", organizationColumns, where)
	org, err := scanOrganization(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedInput(err) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// GetByID retrieves an organization by ID
func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves an organization by slug
func (r *PostgresOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.getOne(ctx, "slug", slug)
}

// List retrieves organizations with pagination and filters
func (r *PostgresOrganizationRepository) List(ctx context.Context, limit, offset int, isActive *bool, search string) ([]*domain.Organization, int64, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if isActive != nil {
		whereClause += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *isActive)
		argIndex++
	}

	if search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM organizations %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM organizations
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, organizationColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, org)
	}
	return orgs, total, rows.Err()
}

// Update persists the mutable organization fields
func (r *PostgresOrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, subdomain = $3, settings = $4, is_active = $5, plan = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		org.ID,
		org.Name,
		org.Subdomain,
		org.Settings.OrEmpty(),
		org.IsActive,
		org.Plan,
		org.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("organization %s: %w", org.ID, domain.ErrNotFound)
	}
	return nil
}

// ExistsBySlug checks if an organization uses the slug
func (r *PostgresOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM organizations WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// ExistsBySubdomain checks if an organization uses the subdomain
func (r *PostgresOrganizationRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM organizations WHERE subdomain = $1)`, subdomain).Scan(&exists)
	return exists, err
}
