package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// mapError turns unique violations into domain.ErrConflict, unparsable values
// (a non-UUID id) into domain.ErrValidation and leaves everything else intact
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case invalidTextRepresentation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	}
	return err
}

// isMalformedInput reports whether Postgres rejected a parameter it could not parse.
// Lookups treat that as "no such row".
func isMalformedInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
