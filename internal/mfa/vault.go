// Package mfa implements the backup-code vault used as the secondary login
// factor. Codes are single-use and replaced as a whole batch whenever MFA is
// enabled or regenerated.
package mfa

import (
	"context"
	"crypto/rand"
	"fmt"
	"inkwell/internal/repository"
	"math/big"

	"github.com/google/uuid"
)

const (
	// CodeLength is the number of characters in a backup code
	CodeLength = 8
	// DefaultCodeCount is the batch size issued per user
	DefaultCodeCount = 8

	// Uppercase letters and digits only, so codes survive being read aloud
	// or written down.
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCodes produces count backup codes from a cryptographically secure
// random source. A guessable code is a full second-factor bypass, so
// math/rand is not acceptable here.
func GenerateCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	max := big.NewInt(int64(len(codeAlphabet)))

	for i := 0; i < count; i++ {
		buf := make([]byte, CodeLength)
		for j := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return nil, fmt.Errorf("failed to generate backup code: %w", err)
			}
			buf[j] = codeAlphabet[n.Int64()]
		}
		codes = append(codes, string(buf))
	}
	return codes, nil
}

// Vault issues and consumes backup codes backed by the code repository
type Vault struct {
	codeRepo repository.BackupCodeRepository
}

// NewVault creates a new backup-code vault
func NewVault(codeRepo repository.BackupCodeRepository) *Vault {
	return &Vault{codeRepo: codeRepo}
}

// Issue generates a fresh batch of codes and atomically replaces any prior
// batch for the user. The returned plain codes are shown to the user exactly
// once.
func (v *Vault) Issue(ctx context.Context, userID uuid.UUID) ([]string, error) {
	codes, err := GenerateCodes(DefaultCodeCount)
	if err != nil {
		return nil, err
	}

	if err := v.codeRepo.Replace(ctx, userID, codes); err != nil {
		return nil, fmt.Errorf("failed to store backup codes: %w", err)
	}
	return codes, nil
}

// Consume marks a matching unused code as spent. It returns false for a wrong
// code, an already-used code, or a user with no codes issued; the caller
// cannot tell these apart.
func (v *Vault) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	return v.codeRepo.Consume(ctx, userID, code)
}

// Revoke deletes all of the user's codes. Called when MFA is disabled.
func (v *Vault) Revoke(ctx context.Context, userID uuid.UUID) error {
	return v.codeRepo.DeleteForUser(ctx, userID)
}
