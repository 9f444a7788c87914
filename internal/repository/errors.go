package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when the email unique constraint is violated.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// IsDuplicateEmail reports whether err is a unique violation on users.email.
func IsDuplicateEmail(err error) bool {
	if errors.Is(err, ErrDuplicateEmail) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
