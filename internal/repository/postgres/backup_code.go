package postgres

import (
	"context"
	"database/sql"
	"inkwell/internal/repository"
	"time"

	"github.com/google/uuid"
)

type backupCodeRepository struct {
	repository.BaseRepository
}

// NewBackupCodeRepository creates a new PostgreSQL backup code repository
func NewBackupCodeRepository(db *sql.DB) repository.BackupCodeRepository {
	return &backupCodeRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

// Replace swaps the user's entire code batch in one transaction so a reader
// never observes a mix of old and new codes.
func (r *backupCodeRepository) Replace(ctx context.Context, userID uuid.UUID, codes []string) error {
	return r.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM backup_codes WHERE user_id = $1", userID); err != nil {
			return err
		}

		query := `
			INSERT INTO backup_codes (id, user_id, code, used, created_at)
			VALUES ($1, $2, $3, false, $4)`

		now := time.Now()
		for _, code := range codes {
			if _, err := tx.ExecContext(ctx, query, uuid.New(), userID, code, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// Consume marks a matching unused code as used. The check and the mark are a
// single UPDATE, so concurrent submissions of the same code resolve to exactly
// one winner.
func (r *backupCodeRepository) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	query := `
		UPDATE backup_codes
		SET used = true, used_at = $3
		WHERE user_id = $1
		AND code = $2
		AND used = false`

	result, err := r.DB().ExecContext(ctx, query, userID, code, time.Now())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *backupCodeRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB().ExecContext(ctx,
		"DELETE FROM backup_codes WHERE user_id = $1", userID)
	return err
}
