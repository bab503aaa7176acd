package postgres

import (
	"context"
	"database/sql"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, name, email, hashed_password, avatar, color,
			is_active, is_verified, mfa_enabled, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	user.ID = uuid.New()
	if user.Color == "" {
		user.Color = "#3b82f6"
	}

	err := r.DB().QueryRowContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Avatar,
		user.Color,
		user.IsActive,
		user.IsVerified,
		user.MFAEnabled,
		now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, name, email, hashed_password, avatar, color,
		       is_active, is_verified, mfa_enabled, created_at, updated_at
		FROM users
		WHERE ` + where

	var user models.User
	err := r.DB().QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Avatar,
		&user.Color,
		&user.IsActive,
		&user.IsVerified,
		&user.MFAEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.update(ctx,
		"UPDATE users SET hashed_password = $2, updated_at = $3 WHERE id = $1",
		id, hashedPassword, time.Now())
}

func (r *userRepository) SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.update(ctx,
		"UPDATE users SET mfa_enabled = $2, updated_at = $3 WHERE id = $1",
		id, enabled, time.Now())
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.update(ctx,
		"UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1",
		id, active, time.Now())
}

func (r *userRepository) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
