package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUndefinedFunctionCode = "42883"

// ErrMissingRoutine indicates a stored function the query depends on has not
// been installed. Run the migrations to create it.
var ErrMissingRoutine = errors.New("database routine not installed")

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr and PostgreSQL undefined_function (42883)
// to ErrMissingRoutine. Other errors are returned unchanged.
func MapError(err error, notFoundErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedFunctionCode {
		return fmt.Errorf("%w: %s", ErrMissingRoutine, pgErr.Message)
	}

	return err
}
