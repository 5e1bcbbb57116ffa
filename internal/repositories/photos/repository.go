// Package photos persists evidence photos attributed to students.
package photos

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a photo, preserving the caller-supplied id.
	Create(ctx context.Context, p *models.Photo) error

	// ListByTeacher returns every photo owned by teacherID, ordered by
	// capture time ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Photo, error)

	// DeleteByTeacher removes all of a teacher's photos and returns the
	// number of rows deleted.
	DeleteByTeacher(ctx context.Context, teacherID string) (int64, error)
}
