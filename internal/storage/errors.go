// Package storage classifies driver-level Postgres errors so callers can
// treat constraint violations as expected outcomes instead of failures.
package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// The slot reservation flow relies on this to turn the partial unique index
// on (appointment_date, appointment_time) into a "slot taken" outcome.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsUndefinedTable reports whether err means the queried table does not exist
// (Postgres 42P01). The deployment connection test treats this as proof of
// reachability: the remote answered, the schema just is not there yet.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
