// Package local implements the local variant of the backup subsystem: a
// rotating snapshot history kept in the profile's own SQLite database,
// driven by a timer and a teardown hook instead of explicit API calls.
package local

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbriard/carnets/internal/repositories/repomanager"
)

// InitDatabase opens the profile database, applies migrations and returns
// the handle together with the SQLite repository manager bound to it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open profile db: %w", err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		return nil, nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	m := repomanager.NewSQLiteRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migrate profile db: %w", err)
	}
	return db, m, nil
}
