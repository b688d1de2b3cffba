package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"studyload/apperrors"
)

// Postgres SQLSTATE codes the store distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// classify maps a driver error onto the domain taxonomy. what names the
// missing entity in NotFound messages.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(what + " not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.Wrap(apperrors.CodeConflict, what+" already exists", err)
		case pgForeignKeyViolation:
			return apperrors.Wrap(apperrors.CodeValidationFailure, what+" references a missing row", err)
		case pgCheckViolation:
			return apperrors.Wrap(apperrors.CodeValidationFailure, what+" violates a constraint", err)
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteConstraint(liteErr) {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperrors.Wrap(apperrors.CodeConflict, what+" already exists", err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperrors.Wrap(apperrors.CodeValidationFailure, what+" references a missing row", err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return apperrors.Wrap(apperrors.CodeValidationFailure, what+" violates a constraint", err)
		}
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Unavailable(err)
}

// expectRow turns an update or delete that touched nothing into NotFound.
func expectRow(affected int64, what string) error {
	if affected == 0 {
		return apperrors.NotFound(what + " not found")
	}
	return nil
}

// liteConstraint returns the extended constraint code of e. Connections
// without extended result codes only report SQLITE_CONSTRAINT, so the kind is
// read from the message instead.
func liteConstraint(e *sqlite.Error) int {
	code := e.Code()
	if code != sqlite3.SQLITE_CONSTRAINT {
		return code
	}
	msg := e.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"):
		return sqlite3.SQLITE_CONSTRAINT_UNIQUE
	case strings.Contains(msg, "FOREIGN KEY"):
		return sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	case strings.Contains(msg, "CHECK"):
		return sqlite3.SQLITE_CONSTRAINT_CHECK
	}
	return code
}
