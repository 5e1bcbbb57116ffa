// Package teachers persists teacher accounts, the ownership boundary for
// every other entity.
package teachers

import (
	"context"

	"github.com/mbriard/carnets/internal/models"
)

type Repository interface {
	// Create inserts a teacher row.
	Create(ctx context.Context, t *models.Teacher) error

	// GetByID returns a teacher or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
}
