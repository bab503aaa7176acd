package mfa_test

import (
	"context"
	"inkwell/internal/mfa"
	"inkwell/internal/testutil"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodes(t *testing.T) {
	codes, err := mfa.GenerateCodes(mfa.DefaultCodeCount)
	require.NoError(t, err)
	require.Len(t, codes, mfa.DefaultCodeCount)

	seen := make(map[string]bool)
	for _, code := range codes {
		require.Len(t, code, mfa.CodeLength)
		for _, ch := range code {
			isUpper := ch >= 'A' && ch <= 'Z'
			isDigit := ch >= '0' && ch <= '9'
			require.True(t, isUpper || isDigit, "unexpected character %q in code %s", ch, code)
		}
		require.False(t, seen[code], "duplicate code %s in batch", code)
		seen[code] = true
	}
}

func TestVault_IssueAndConsume(t *testing.T) {
	repo := testutil.NewFakeBackupCodeRepository()
	vault := mfa.NewVault(repo)
	ctx := context.Background()
	userID := uuid.New()

	codes, err := vault.Issue(ctx, userID)
	require.NoError(t, err)
	require.Len(t, codes, mfa.DefaultCodeCount)
	require.Equal(t, mfa.DefaultCodeCount, repo.Unused(userID))

	consumed, err := vault.Consume(ctx, userID, codes[0])
	require.NoError(t, err)
	require.True(t, consumed)
	require.Equal(t, mfa.DefaultCodeCount-1, repo.Unused(userID))

	// Second spend of the same code must fail
	consumed, err = vault.Consume(ctx, userID, codes[0])
	require.NoError(t, err)
	require.False(t, consumed)

	// Wrong code and wrong user look the same as a spent code
	consumed, err = vault.Consume(ctx, userID, "AAAAAAAA")
	require.NoError(t, err)
	require.False(t, consumed)

	consumed, err = vault.Consume(ctx, uuid.New(), codes[1])
	require.NoError(t, err)
	require.False(t, consumed)
}

func TestVault_IssueReplacesPreviousBatch(t *testing.T) {
	repo := testutil.NewFakeBackupCodeRepository()
	vault := mfa.NewVault(repo)
	ctx := context.Background()
	userID := uuid.New()

	first, err := vault.Issue(ctx, userID)
	require.NoError(t, err)

	second, err := vault.Issue(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, mfa.DefaultCodeCount, repo.Unused(userID))

	// Codes from the superseded batch no longer work
	consumed, err := vault.Consume(ctx, userID, first[0])
	require.NoError(t, err)
	require.False(t, consumed)

	consumed, err = vault.Consume(ctx, userID, second[0])
	require.NoError(t, err)
	require.True(t, consumed)
}

func TestVault_ConsumeConcurrentDoubleSpend(t *testing.T) {
	repo := testutil.NewFakeBackupCodeRepository()
	vault := mfa.NewVault(repo)
	ctx := context.Background()
	userID := uuid.New()

	codes, err := vault.Issue(ctx, userID)
	require.NoError(t, err)

	const racers = 16
	results := make(chan bool, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumed, err := vault.Consume(ctx, userID, codes[0])
			require.NoError(t, err)
			results <- consumed
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for consumed := range results {
		if consumed {
			successes++
		}
	}
	require.Equal(t, 1, successes, "exactly one racer may spend the code")
	require.Equal(t, mfa.DefaultCodeCount-1, repo.Unused(userID))
}

func TestVault_Revoke(t *testing.T) {
	repo := testutil.NewFakeBackupCodeRepository()
	vault := mfa.NewVault(repo)
	ctx := context.Background()
	userID := uuid.New()

	codes, err := vault.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, vault.Revoke(ctx, userID))
	require.Equal(t, 0, repo.Unused(userID))

	consumed, err := vault.Consume(ctx, userID, codes[0])
	require.NoError(t, err)
	require.False(t, consumed)
}
