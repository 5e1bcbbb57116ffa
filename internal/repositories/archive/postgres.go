package archive

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

func (r *PostgresRepository) Create(ctx context.Context, e *models.ArchiveEntry) error {
	query := `INSERT INTO backup_archive (id, teacher_id, blob_key, size_bytes, format_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.TeacherID, e.BlobKey, e.SizeBytes, e.FormatVersion, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error) {
	query := `SELECT id, teacher_id, blob_key, size_bytes, format_version, created_at
		FROM backup_archive WHERE id = $1`

	e := &models.ArchiveEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.TeacherID, &e.BlobKey, &e.SizeBytes, &e.FormatVersion, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ArchiveEntry, error) {
	query := `SELECT id, teacher_id, blob_key, size_bytes, format_version, created_at
		FROM backup_archive WHERE teacher_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select archive entries: %w", err)
	}
	defer rows.Close()

	var result []models.ArchiveEntry
	for rows.Next() {
		var item models.ArchiveEntry
		if err := rows.Scan(
			&item.ID, &item.TeacherID, &item.BlobKey, &item.SizeBytes,
			&item.FormatVersion, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backup_archive WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) StatsByTeacher(ctx context.Context, teacherID string) (*models.ArchiveStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(size_bytes), 0), MAX(created_at)
		FROM backup_archive WHERE teacher_id = $1`

	s := &models.ArchiveStats{}
	err := r.db.QueryRowContext(ctx, query, teacherID).Scan(&s.Count, &s.TotalBytes, &s.NewestAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
