package repositories

import (
	"context"

	"tunelink/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create persists a new user; a duplicate email returns ErrEmailTaken.
	Create(ctx context.Context, user *models.User) error

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
