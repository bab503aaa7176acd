package ratelimit_test

import (
	"context"
	"errors"
	"inkwell/internal/models"
	"inkwell/internal/ratelimit"
	"inkwell/internal/testutil"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type limiterFixture struct {
	mr      *miniredis.Miniredis
	ledger  *testutil.FakeLoginAttemptRepository
	limiter *ratelimit.Limiter
}

func newLimiterFixture(t *testing.T) *limiterFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ledger := testutil.NewFakeLoginAttemptRepository()
	limiter := ratelimit.New(
		ratelimit.NewRedisCounterStore(client),
		ledger,
		ratelimit.Config{MaxAttempts: 3, LockoutWindow: 30 * time.Minute},
	)
	return &limiterFixture{mr: mr, ledger: ledger, limiter: limiter}
}

func TestLimiter_DeniesAfterMaxFailures(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := f.limiter.Check(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, allowed, "attempt %d should be admitted", i+1)

		require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	}

	allowed, err := f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, allowed)

	// Other IPs are unaffected
	allowed, err = f.limiter.Check(ctx, "198.51.100.2")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestLimiter_SuccessResetsCounter(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	}
	require.Equal(t, 1, f.limiter.Remaining(ctx, "203.0.113.7"))

	require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", true, nil, "test-agent"))

	require.Equal(t, 3, f.limiter.Remaining(ctx, "203.0.113.7"))
	allowed, err := f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestLimiter_RemainingClampsToZero(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	}
	require.Equal(t, 0, f.limiter.Remaining(ctx, "203.0.113.7"))
}

func TestLimiter_WindowExpiry(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	}
	allowed, err := f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, allowed)

	// The counter key expires once the lockout window passes
	f.mr.FastForward(30*time.Minute + time.Second)

	allowed, err = f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestLimiter_FallsBackToLedgerWhenCounterDown(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	}

	f.mr.SetError("counter store down")

	// The durable ledger still enforces the lockout
	allowed, err := f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, f.limiter.Remaining(ctx, "203.0.113.7"))

	allowed, err = f.limiter.Check(ctx, "198.51.100.2")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestLimiter_LedgerOnlyCountsRecentFailures(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	// Failures older than the window and successes must not count
	stale := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.ledger.Create(ctx, &models.LoginAttempt{
			IP:        "203.0.113.7",
			Success:   false,
			CreatedAt: stale,
		}))
	}
	require.NoError(t, f.ledger.Create(ctx, &models.LoginAttempt{
		IP:      "203.0.113.7",
		Success: true,
	}))

	f.mr.SetError("counter store down")

	allowed, err := f.limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 3, f.limiter.Remaining(ctx, "203.0.113.7"))
}

func TestLimiter_RecordSwallowsCounterErrors(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	f.mr.SetError("counter store down")

	// The ledger write succeeded, so Record reports success even though the
	// fast tier could not be updated.
	require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent"))
	require.NoError(t, f.limiter.Record(ctx, "203.0.113.7", true, nil, "test-agent"))

	require.Len(t, f.ledger.Attempts(), 2)
}

func TestLimiter_RecordFailsWhenLedgerFails(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	f.ledger.FailCreate = errors.New("ledger unavailable")

	err := f.limiter.Record(ctx, "203.0.113.7", false, nil, "test-agent")
	require.Error(t, err)

	// The counter is only touched after a successful ledger write
	require.Equal(t, 3, f.limiter.Remaining(ctx, "203.0.113.7"))
}

func TestLimiter_RemainingFullWhenBothTiersDown(t *testing.T) {
	f := newLimiterFixture(t)
	ctx := context.Background()

	f.mr.SetError("counter store down")
	f.ledger.FailCount = errors.New("ledger unavailable")

	// Telemetry degrades open rather than failing the caller
	require.Equal(t, 3, f.limiter.Remaining(ctx, "203.0.113.7"))

	// Admission does not: with no tier able to answer, Check surfaces the error
	_, err := f.limiter.Check(ctx, "203.0.113.7")
	require.Error(t, err)
}

func TestLimiter_ZeroConfigUsesDefaults(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := ratelimit.New(
		ratelimit.NewRedisCounterStore(client),
		testutil.NewFakeLoginAttemptRepository(),
		ratelimit.Config{},
	)
	require.Equal(t, ratelimit.DefaultMaxAttempts, limiter.MaxAttempts())
	require.Equal(t, ratelimit.DefaultLockoutWindow, limiter.Window())
}
