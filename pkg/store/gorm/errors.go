package gorm

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// PostgreSQL SQLSTATE codes for constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps constraint violations raised while writing link to
// the store's sentinel errors. Other errors are returned unchanged.
func translateError(err error, link model.UserRoles) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrDuplicateUserRole)
		case pgForeignKeyViolation:
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrUnknownUserOrRole)
		}
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrDuplicateUserRole)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrUnknownUserOrRole)
		}
	}
	return err
}
