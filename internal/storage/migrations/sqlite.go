package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SQLiteMigrator applies the embedded SQLite migrations to a database file.
type SQLiteMigrator struct {
	migrate *migrate.Migrate
}

// NewSQLiteMigrator creates a migrator for the database at path.
// In-memory databases are not supported: the migrator opens its own connection.
func NewSQLiteMigrator(path string) (*SQLiteMigrator, error) {
	dir, err := fs.Sub(SQLiteFS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("access sqlite migrations: %w", err)
	}

	source, err := iofs.New(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	normalized := filepath.ToSlash(path)
	if filepath.IsAbs(path) && normalized[0] != '/' {
		normalized = "/" + normalized
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, "sqlite://"+normalized)
	if err != nil {
		return nil, fmt.Errorf("create sqlite migrator: %w", err)
	}
	return &SQLiteMigrator{migrate: m}, nil
}

// Up applies all pending migrations.
func (m *SQLiteMigrator) Up() error {
	if err := m.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply sqlite migrations: %w", err)
	}
	return nil
}

// Down rolls back every migration.
func (m *SQLiteMigrator) Down() error {
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back sqlite migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version and dirty state.
func (m *SQLiteMigrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("read sqlite migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the migrator's source and database handles.
func (m *SQLiteMigrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

// RunSQLiteMigrations applies all pending migrations to the database at path.
func RunSQLiteMigrations(path string) error {
	m, err := NewSQLiteMigrator(path)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		m.Close()
		return err
	}
	return m.Close()
}
