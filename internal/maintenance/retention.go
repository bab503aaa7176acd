// Package maintenance runs scheduled housekeeping jobs. The auth core treats
// the login attempt ledger as append-only; this is the one place old records
// are deleted.
package maintenance

import (
	"context"
	"fmt"
	"inkwell/internal/config"
	"inkwell/internal/repository"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention prunes login attempt records past the configured horizon
type Retention struct {
	attemptRepo repository.LoginAttemptRepository
	cfg         config.RetentionConfig
	cron        *cron.Cron
}

// NewRetention creates the retention job runner
func NewRetention(attemptRepo repository.LoginAttemptRepository, cfg config.RetentionConfig) *Retention {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Retention{
		attemptRepo: attemptRepo,
		cfg:         cfg,
		cron:        c,
	}
}

// Run executes one pruning pass
func (r *Retention) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -r.cfg.MaxAgeDays)
	deleted, err := r.attemptRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune login attempts: %w", err)
	}
	if deleted > 0 {
		log.Printf("Pruned %d login attempts older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return nil
}

// Start schedules the pruning job and blocks until the context is cancelled
func (r *Retention) Start(ctx context.Context) error {
	if r.cfg.Schedule == "" {
		return fmt.Errorf("retention job has no schedule configured")
	}

	_, err := r.cron.AddFunc(r.cfg.Schedule, func() {
		log.Println("Running scheduled login attempt pruning")
		if err := r.Run(ctx); err != nil {
			log.Printf("Error pruning login attempts: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	r.cron.Start()
	log.Printf("Retention scheduler started with schedule %s", r.cfg.Schedule)

	// Wait for context cancellation
	<-ctx.Done()
	log.Println("Stopping retention scheduler...")
	r.cron.Stop()

	return nil
}
