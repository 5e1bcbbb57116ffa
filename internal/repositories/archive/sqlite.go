package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/models"
)

// SQLiteRepository implements Repository for the local rotating history.
// The snapshot bytes live in the blobs table of the same database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, e *models.ArchiveEntry) error {
	query := `INSERT INTO backup_archive (id, teacher_id, blob_key, size_bytes, format_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.TeacherID, e.BlobKey, e.SizeBytes, e.FormatVersion, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ArchiveEntry, error) {
	query := `SELECT id, teacher_id, blob_key, size_bytes, format_version, created_at
		FROM backup_archive WHERE id = ?`

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

func (r *SQLiteRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ArchiveEntry, error) {
	query := `SELECT id, teacher_id, blob_key, size_bytes, format_version, created_at
		FROM backup_archive WHERE teacher_id = ? ORDER BY created_at DESC`

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

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backup_archive WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) StatsByTeacher(ctx context.Context, teacherID string) (*models.ArchiveStats, error) {
	s := &models.ArchiveStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM backup_archive WHERE teacher_id = ?`,
		teacherID).Scan(&s.Count, &s.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if s.Count == 0 {
		return s, nil
	}

	// MAX(created_at) loses the column's declared type under SQLite, so the
	// newest timestamp comes from a plain ordered select.
	var newest time.Time
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at FROM backup_archive WHERE teacher_id = ? ORDER BY created_at DESC LIMIT 1`,
		teacherID).Scan(&newest)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.NewestAt = &newest
	return s, nil
}
