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

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Teacher) error {
	query := `INSERT INTO teachers (id, email, display_name, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Email, t.DisplayName, t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT id, email, display_name, created_at FROM teachers WHERE id = $1`

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
