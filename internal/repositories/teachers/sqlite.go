package teachers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/models"
)

// SQLiteRepository implements Repository for the local profile database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Teacher) error {
	query := `INSERT INTO teachers (id, email, display_name, created_at)
		VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Email, t.DisplayName, t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT id, email, display_name, created_at FROM teachers WHERE id = ?`

	t := &models.Teacher{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Email, &t.DisplayName, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
