package booklets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mbriard/carnets/internal/common"
	"github.com/mbriard/carnets/internal/dbx"
	"github.com/mbriard/carnets/internal/models"
)

// SQLiteRepository implements Repository for the local profile database.
// Skills are stored as a JSON TEXT column.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, b *models.Booklet) error {
	skills, err := json.Marshal(b.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	query := `INSERT INTO booklets (id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.TeacherID, b.StudentID, b.Period, b.Synthesis, string(skills), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Booklet, error) {
	query := `SELECT id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at
		FROM booklets WHERE id = ?`

	b := &models.Booklet{}
	var skills string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.TeacherID, &b.StudentID, &b.Period, &b.Synthesis, &skills, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &b.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Booklet, error) {
	query := `SELECT id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at
		FROM booklets WHERE teacher_id = ? ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select booklets: %w", err)
	}
	defer rows.Close()

	var result []models.Booklet
	for rows.Next() {
		var item models.Booklet
		var skills string
		if err := rows.Scan(
			&item.ID, &item.TeacherID, &item.StudentID, &item.Period,
			&item.Synthesis, &skills, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skills), &item.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByTeacher(ctx context.Context, teacherID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booklets WHERE teacher_id = ?`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
