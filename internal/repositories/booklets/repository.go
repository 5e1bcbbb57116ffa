// Package booklets persists per-student skill-tracking carnets. Skill
// evaluations travel as one JSON column so a booklet restores byte-for-byte.
package booklets

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a booklet, preserving the caller-supplied id.
	Create(ctx context.Context, b *models.Booklet) error

	// GetByID returns a booklet or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Booklet, error)

	// ListByTeacher returns every booklet owned by teacherID, ordered by
	// creation time ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Booklet, error)

	// DeleteByTeacher removes all of a teacher's booklets and returns the
	// number of rows deleted.
	DeleteByTeacher(ctx context.Context, teacherID string) (int64, error)
}
