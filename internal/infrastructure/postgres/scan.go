package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// notFound maps pgx.ErrNoRows to model.ErrNotFound.
func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}

// writeErr maps constraint violations to domain errors.
func writeErr(err error, op string) error {
	switch {
	case pgutil.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, model.ErrAlreadyExists)
	case pgutil.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: referenced row does not exist or is still in use", op, model.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
