package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/dbx"
)

// SQLiteStore implements Store over a single-table SQLite key-value store.
// The local variant inlines snapshot bytes here, next to the catalog, so one
// profile database holds the whole rotating history.
type SQLiteStore struct {
	db dbx.DBTX
}

// NewSQLiteStore returns a store bound to the given DBTX.
func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte) error {
	query := `INSERT INTO blobs (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data`
	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
