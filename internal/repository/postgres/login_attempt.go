package postgres

import (
	"context"
	"database/sql"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"time"

	"github.com/google/uuid"
)

type loginAttemptRepository struct {
	repository.BaseRepository
}

// NewLoginAttemptRepository creates a new PostgreSQL login attempt repository
func NewLoginAttemptRepository(db *sql.DB) repository.LoginAttemptRepository {
	return &loginAttemptRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *loginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO login_attempts (id, user_id, ip, user_agent, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB().ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.IP,
		attempt.UserAgent,
		attempt.Success,
		attempt.CreatedAt,
	)
	return err
}

func (r *loginAttemptRepository) CountRecentFailures(ctx context.Context, ip string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE ip = $1
		AND success = false
		AND created_at >= $2`

	var count int
	err := r.DB().QueryRowContext(ctx, query, ip, since).Scan(&count)
	return count, err
}

func (r *loginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx,
		"DELETE FROM login_attempts WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
