package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateTitle    = errors.New("title already exists")
	ErrDuplicateRow      = errors.New("row already exists")
)

// mapError maps sqlite errors to sentinel errors. Unknown errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "users.email"):
			return ErrDuplicateEmail
		case strings.Contains(msg, "users.username"):
			return ErrDuplicateUsername
		case strings.Contains(msg, "categories.title"):
			return ErrDuplicateTitle
		}
		return fmt.Errorf("%w: %s", ErrDuplicateRow, msg)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %s", ErrNotFound, sqliteErr.Error())
	}
	return fmt.Errorf("sqlite error [%d]: %w", sqliteErr.ExtendedCode, err)
}
