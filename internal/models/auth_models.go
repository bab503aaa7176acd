package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginAttempt represents a single recorded login attempt. Attempts are
// append-only: they double as the audit trail and as the durable tier of the
// login rate limiter.
type LoginAttempt struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	IP        string     `json:"ip"`
	UserAgent string     `json:"user_agent"`
	Success   bool       `json:"success"`
	CreatedAt time.Time  `json:"created_at"`
}

// BackupCode represents a single-use MFA recovery code
type BackupCode struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Code      string     `json:"-" db:"code"`
	Used      bool       `json:"used" db:"used"`
	UsedAt    *time.Time `json:"used_at" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
