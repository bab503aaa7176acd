// Package ratelimit implements the per-IP login attempt limiter.
//
// Two cooperating tiers back the limiter: a fast counter store (Redis) for
// O(1) checks in the common case, and the durable login-attempt ledger as the
// correctness source of truth. If the counter store is unreachable the
// limiter re-derives the count from the ledger, so an outage of the fast tier
// never admits unlimited attempts.
package ratelimit

import (
	"context"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxAttempts is the number of failed logins allowed per IP
	// within the lockout window
	DefaultMaxAttempts = 3
	// DefaultLockoutWindow is the trailing window over which failures count
	DefaultLockoutWindow = 30 * time.Minute

	// Calls to the fast tier must fail fast rather than stall the login flow
	counterTimeout = 500 * time.Millisecond
)

// Config holds the limiter policy
type Config struct {
	MaxAttempts   int
	LockoutWindow time.Duration
}

// Limiter decides admit/deny per source IP and records attempt outcomes
type Limiter struct {
	counter CounterStore
	ledger  repository.LoginAttemptRepository
	cfg     Config
}

// New creates a login rate limiter over the given tiers. Zero config fields
// fall back to the defaults.
func New(counter CounterStore, ledger repository.LoginAttemptRepository, cfg Config) *Limiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = DefaultLockoutWindow
	}
	return &Limiter{
		counter: counter,
		ledger:  ledger,
		cfg:     cfg,
	}
}

// MaxAttempts returns the configured attempt ceiling
func (l *Limiter) MaxAttempts() int {
	return l.cfg.MaxAttempts
}

// Window returns the configured lockout window
func (l *Limiter) Window() time.Duration {
	return l.cfg.LockoutWindow
}

// Check reports whether the IP may attempt a login. The fast counter answers
// when reachable; otherwise the failed ledger entries in the trailing window
// decide. The returned error is non-nil only when both tiers are unavailable.
func (l *Limiter) Check(ctx context.Context, ip string) (bool, error) {
	count, err := l.currentCount(ctx, ip)
	if err != nil {
		return false, err
	}
	return count < l.cfg.MaxAttempts, nil
}

// Record appends the attempt to the durable ledger and then updates the fast
// counter best-effort. The ledger write is the source of truth; a counter
// failure degrades performance, not correctness, so it is logged and
// swallowed.
func (l *Limiter) Record(ctx context.Context, ip string, success bool, userID *uuid.UUID, userAgent string) error {
	attempt := &models.LoginAttempt{
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Success:   success,
		CreatedAt: time.Now(),
	}

	if err := l.ledger.Create(ctx, attempt); err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, counterTimeout)
	defer cancel()

	if success {
		if err := l.counter.Reset(cctx, ip); err != nil {
			log.Printf("rate limiter: failed to reset counter for %s: %v", ip, err)
		}
		return nil
	}

	if err := l.counter.Increment(cctx, ip, l.cfg.LockoutWindow); err != nil {
		log.Printf("rate limiter: failed to increment counter for %s: %v", ip, err)
	}
	return nil
}

// Remaining returns how many attempts the IP has left, clamped to zero. It is
// best-effort telemetry: if both tiers are unavailable it reports the full
// allowance rather than failing the caller.
func (l *Limiter) Remaining(ctx context.Context, ip string) int {
	count, err := l.currentCount(ctx, ip)
	if err != nil {
		return l.cfg.MaxAttempts
	}

	remaining := l.cfg.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (l *Limiter) currentCount(ctx context.Context, ip string) (int, error) {
	cctx, cancel := context.WithTimeout(ctx, counterTimeout)
	defer cancel()

	count, err := l.counter.Get(cctx, ip)
	if err == nil {
		return count, nil
	}
	log.Printf("rate limiter: counter store unavailable, falling back to ledger: %v", err)

	since := time.Now().Add(-l.cfg.LockoutWindow)
	return l.ledger.CountRecentFailures(ctx, ip, since)
}
