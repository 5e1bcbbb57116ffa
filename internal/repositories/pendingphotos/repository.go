// Package pendingphotos persists photos captured but not yet attributed to a
// student.
package pendingphotos

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a pending photo, preserving the caller-supplied id.
	Create(ctx context.Context, p *models.PendingPhoto) error

	// ListByTeacher returns every pending photo owned by teacherID, ordered
	// by capture time ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]models.PendingPhoto, error)

	// DeleteByTeacher removes all of a teacher's pending photos and returns
	// the number of rows deleted.
	DeleteByTeacher(ctx context.Context, teacherID string) (int64, error)
}
