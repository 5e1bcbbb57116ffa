package students

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

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Student) error {
	query := `INSERT INTO students (id, teacher_id, first_name, last_name, birth_date, level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TeacherID, s.FirstName, s.LastName, s.BirthDate, s.Level, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT id, teacher_id, first_name, last_name, birth_date, level, created_at, updated_at
		FROM students WHERE id = ?`

	s := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.TeacherID, &s.FirstName, &s.LastName, &s.BirthDate, &s.Level, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Student, error) {
	query := `SELECT id, teacher_id, first_name, last_name, birth_date, level, created_at, updated_at
		FROM students WHERE teacher_id = ? ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select students: %w", err)
	}
	defer rows.Close()

	var result []models.Student
	for rows.Next() {
		var item models.Student
		if err := rows.Scan(
			&item.ID, &item.TeacherID, &item.FirstName, &item.LastName,
			&item.BirthDate, &item.Level, &item.CreatedAt, &item.UpdatedAt,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE teacher_id = ?`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
