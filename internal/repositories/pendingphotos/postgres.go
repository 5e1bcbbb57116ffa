package pendingphotos

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, p *models.PendingPhoto) error {
	query := `INSERT INTO pending_photos (id, teacher_id, content_type, data, captured_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.TeacherID, p.ContentType, p.Data, p.CapturedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.PendingPhoto, error) {
	query := `SELECT id, teacher_id, content_type, data, captured_at
		FROM pending_photos WHERE teacher_id = $1 ORDER BY captured_at`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending photos: %w", err)
	}
	defer rows.Close()

	var result []models.PendingPhoto
	for rows.Next() {
		var item models.PendingPhoto
		if err := rows.Scan(&item.ID, &item.TeacherID, &item.ContentType, &item.Data, &item.CapturedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByTeacher(ctx context.Context, teacherID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_photos WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
