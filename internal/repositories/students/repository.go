// Package students persists student records. The backup engine reads and
// rewrites them through this interface, so both store dialects implement it.
package students

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a student, preserving the caller-supplied id.
	Create(ctx context.Context, s *models.Student) error

	// GetByID returns a student or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Student, error)

	// ListByTeacher returns every student owned by teacherID, ordered by
	// creation time ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Student, error)

	// DeleteByTeacher removes all of a teacher's students and returns the
	// number of rows deleted.
	DeleteByTeacher(ctx context.Context, teacherID string) (int64, error)
}
