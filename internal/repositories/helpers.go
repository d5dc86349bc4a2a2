// Package repositories implements MySQL data access for the platform
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// nullableString maps nil and empty strings to SQL NULL
func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// nullableInt maps nil to SQL NULL
func nullableInt[T int | int64](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// expectAffected returns a wrapped ErrNotFound when the statement touched no rows
func expectAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", entity, models.ErrNotFound)
	}
	return nil
}
