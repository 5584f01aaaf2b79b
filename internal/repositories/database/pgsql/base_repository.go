package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// uniqueViolation is the SQLSTATE code for a unique constraint conflict.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint conflict.
// Replayed offline actions reuse their action ID as the row's primary key,
// so a conflict here means the row already landed on a previous delivery.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
