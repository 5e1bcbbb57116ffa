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

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Booklet) error {
	skills, err := json.Marshal(b.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	query := `INSERT INTO booklets (id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.TeacherID, b.StudentID, b.Period, b.Synthesis, skills, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Booklet, error) {
	query := `SELECT id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at
		FROM booklets WHERE id = $1`

	b := &models.Booklet{}
	var skills []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.TeacherID, &b.StudentID, &b.Period, &b.Synthesis, &skills, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(skills, &b.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Booklet, error) {
	query := `SELECT id, teacher_id, student_id, period, synthesis, skills, created_at, updated_at
		FROM booklets WHERE teacher_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to select booklets: %w", err)
	}
	defer rows.Close()

	var result []models.Booklet
	for rows.Next() {
		var item models.Booklet
		var skills []byte
		if err := rows.Scan(
			&item.ID, &item.TeacherID, &item.StudentID, &item.Period,
			&item.Synthesis, &skills, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(skills, &item.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByTeacher(ctx context.Context, teacherID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booklets WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
