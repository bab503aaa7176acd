package repository

import (
	"context"
	"inkwell/internal/models"
	"time"
)

// LoginAttemptRepository is the durable attempt ledger. Records are
// append-only from the auth flow's point of view; DeleteOlderThan exists for
// the retention job only.
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailures(ctx context.Context, ip string, since time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
