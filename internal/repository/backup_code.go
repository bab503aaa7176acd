package repository

import (
	"context"

	"github.com/google/uuid"
)

// BackupCodeRepository persists MFA backup codes.
//
// Replace is the only write path for new codes: it swaps the user's whole
// batch in one transaction. Consume must be atomic so that two concurrent
// submissions of the same code can never both succeed.
type BackupCodeRepository interface {
	Replace(ctx context.Context, userID uuid.UUID, codes []string) error
	Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}
