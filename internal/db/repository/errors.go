package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownCategory is returned when a question references a missing category.
	ErrUnknownCategory = errors.New("category does not exist")
)

// IsConstraintViolation reports whether err carries a Postgres integrity
// constraint violation (SQLSTATE class 23).
func IsConstraintViolation(err error) bool {
	return hasSQLStateClass(err, "23")
}

// IsDataException reports whether Postgres rejected a value itself, such as
// a NUL byte in text (SQLSTATE class 22).
func IsDataException(err error) bool {
	return hasSQLStateClass(err, "22")
}

func hasSQLStateClass(err error, class string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, class)
	}
	return false
}
