package photos

import (
	"context"
	"fmt"

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

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Photo) error {
	query := `INSERT INTO photos (id, teacher_id, student_id, booklet_id, caption, content_type, data, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TeacherID, p.StudentID, p.BookletID, p.Caption, p.ContentType, p.Data, p.TakenAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Photo, error) {
	query := `SELECT id, teacher_id, student_id, booklet_id, caption, content_type, data, taken_at
		FROM photos WHERE teacher_id = ? ORDER BY taken_at`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []models.Photo
	for rows.Next() {
		var item models.Photo
		if err := rows.Scan(
			&item.ID, &item.TeacherID, &item.StudentID, &item.BookletID,
			&item.Caption, &item.ContentType, &item.Data, &item.TakenAt,
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

func (r *SQLiteRepository) DeleteByTeacher(ctx context.Context, teacherID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE teacher_id = ?`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
