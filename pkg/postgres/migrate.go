package postgres

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// SchemaVersion describes the migration state before and after a run.
// A zero version means no migration had been applied.
type SchemaVersion struct {
	From uint
	To   uint
}

// Changed reports whether the run applied at least one migration.
func (v SchemaVersion) Changed() bool { return v.From != v.To }

// MigrationSource turns a plain directory into a file:// source URL.
// Values that already carry a scheme are returned untouched.
func MigrationSource(dir string) (string, error) {
	if strings.Contains(dir, "://") {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("postgres: resolve migrations dir %q: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// RunMigrations applies every pending migration found at source and
// reports the schema version it moved between. A dirty database is refused
// so a half-applied migration is repaired by hand instead of being retried.
func RunMigrations(dsn, source string) (SchemaVersion, error) {
	src, err := MigrationSource(source)
	if err != nil {
		return SchemaVersion{}, err
	}
	m, err := migrate.New(src, dsn)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("postgres: open migrations %s: %w", src, err)
	}
	defer m.Close()

	var report SchemaVersion
	from, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return report, fmt.Errorf("postgres: read schema version: %w", err)
	case dirty:
		return report, fmt.Errorf("postgres: schema version %d is dirty", from)
	default:
		report.From = from
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return report, fmt.Errorf("postgres: migrate up from %d: %w", report.From, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return report, fmt.Errorf("postgres: read schema version: %w", err)
	}
	report.To = to
	return report, nil
}
