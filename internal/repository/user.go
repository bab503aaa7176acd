package repository

import (
	"context"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

// UserRepository is the credential store. User records are mutated only
// through the explicit update operations below; deactivation is a flag flip,
// never a delete.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
