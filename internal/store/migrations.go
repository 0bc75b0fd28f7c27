package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Migration is a numbered schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx *sql.Tx) error
}

// migrations lists every schema change in version order.
var migrations = []Migration{
	{
		Version:     1,
		Description: "create Todos table",
		Up:          migration001Todos,
	},
}

// migration001Todos matches the table layout of databases created before
// versioning existed, so those files open unchanged.
func migration001Todos(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS Todos (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    Title TEXT NOT NULL,
    Description TEXT,
    IsCompleted INTEGER NOT NULL,
    ReminderOff INTEGER NOT NULL DEFAULT 0,
    CreatedAt TEXT NOT NULL,
    DueDate TEXT
)`)
	return err
}

// runMigrations executes all pending migrations
func runMigrations(ctx context.Context, db *sql.DB, logger *log.Logger) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT,
    description TEXT
)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	pending := make([]Migration, len(migrations))
	copy(pending, migrations)
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})

	currentVersion, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if m.Version <= currentVersion {
			continue
		}

		logger.Debug("applying migration", "version", m.Version, "description", m.Description)
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.Up(ctx, tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, applied_at, description) VALUES (?, ?, ?)",
		m.Version,
		time.Now().UTC().Format(time.RFC3339),
		m.Description,
	)
	if err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	v, err := schemaVersion(ctx, s.db)
	if err != nil {
		return 0, storageErr("schema version", err)
	}
	return v, nil
}
