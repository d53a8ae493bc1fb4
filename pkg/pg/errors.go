package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConfig      = errors.New("pg: invalid connection config")
	ErrConnect            = errors.New("pg: connect failed")
	ErrUnhealthy          = errors.New("pg: ping failed")
	ErrMigrate            = errors.New("pg: migrations failed")
	ErrMigrationsRequired = errors.New("pg: migrations filesystem is nil")
)

// uniqueViolation is SQLSTATE 23505.
const uniqueViolation = "23505"

// IsNotFoundError reports whether err wraps pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
