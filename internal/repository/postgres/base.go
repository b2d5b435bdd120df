package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// pq error code for unique constraint violations. Uniqueness
// invariants (bed occupancy, slot tuples, grant pairs) are enforced by
// database constraints, so concurrent writers race on the insert
// itself, never on an in-process check.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// translateConflict converts a unique violation into a typed conflict
// so services never inspect driver errors.
func translateConflict(err error, message string) error {
	if isUniqueViolation(err) {
		return apperrors.Conflict(message, err)
	}
	return err
}

// notFoundOr converts sql.ErrNoRows into a typed not-found.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}
	return err
}

// withTx runs fn inside a transaction; any error rolls the whole
// thing back.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
