package users

import (
	"context"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
)

// Repository is the persistence contract for registration rows.
type Repository interface {
	// Create inserts the row. A unique-constraint violation is returned
	// as a *common.ConflictError naming the colliding field; the database
	// constraint is the final authority on races past ExistsBy checks.
	Create(ctx context.Context, user *models.User) error

	// ExistsByEmail reports whether a row with this email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByNationalID reports whether a row with this national id exists.
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)

	// GetByNationalID fetches a row by national id.
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
}
