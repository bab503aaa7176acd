package testutil

import (
	"context"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FakeUserRepository is an in-memory credential store for tests
type FakeUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (r *FakeUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}

	user.ID = uuid.New()
	if user.Color == "" {
		user.Color = "#3b82f6"
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *FakeUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.mutate(id, func(u *models.User) { u.HashedPassword = hashedPassword })
}

func (r *FakeUserRepository) SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.mutate(id, func(u *models.User) { u.MFAEnabled = enabled })
}

func (r *FakeUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.mutate(id, func(u *models.User) { u.IsActive = active })
}

func (r *FakeUserRepository) mutate(id uuid.UUID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	fn(user)
	user.UpdatedAt = time.Now()
	return nil
}

// FakeLoginAttemptRepository is an in-memory attempt ledger for tests
type FakeLoginAttemptRepository struct {
	mu       sync.RWMutex
	attempts []models.LoginAttempt

	// FailCreate makes Create return this error when set
	FailCreate error
	// FailCount makes CountRecentFailures return this error when set
	FailCount error
}

func NewFakeLoginAttemptRepository() *FakeLoginAttemptRepository {
	return &FakeLoginAttemptRepository{}
}

func (r *FakeLoginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		return r.FailCreate
	}

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *FakeLoginAttemptRepository) CountRecentFailures(ctx context.Context, ip string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailCount != nil {
		return 0, r.FailCount
	}

	count := 0
	for _, a := range r.attempts {
		if a.IP == ip && !a.Success && !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *FakeLoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.attempts[:0]
	var deleted int64
	for _, a := range r.attempts {
		if a.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.attempts = kept
	return deleted, nil
}

// Attempts returns a copy of all recorded attempts
func (r *FakeLoginAttemptRepository) Attempts() []models.LoginAttempt {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.LoginAttempt(nil), r.attempts...)
}

// FakeBackupCodeRepository is an in-memory backup code store for tests. Its
// Consume mirrors the single-statement check-and-mark of the SQL
// implementation, so double-spend tests are meaningful against it.
type FakeBackupCodeRepository struct {
	mu    sync.Mutex
	codes map[uuid.UUID][]*models.BackupCode
}

func NewFakeBackupCodeRepository() *FakeBackupCodeRepository {
	return &FakeBackupCodeRepository{codes: make(map[uuid.UUID][]*models.BackupCode)}
}

func (r *FakeBackupCodeRepository) Replace(ctx context.Context, userID uuid.UUID, codes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make([]*models.BackupCode, 0, len(codes))
	now := time.Now()
	for _, code := range codes {
		batch = append(batch, &models.BackupCode{
			ID:        uuid.New(),
			UserID:    userID,
			Code:      code,
			CreatedAt: now,
		})
	}
	r.codes[userID] = batch
	return nil
}

func (r *FakeBackupCodeRepository) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, bc := range r.codes[userID] {
		if bc.Code == code && !bc.Used {
			now := time.Now()
			bc.Used = true
			bc.UsedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeBackupCodeRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.codes, userID)
	return nil
}

// Unused returns how many unused codes the user has left
func (r *FakeBackupCodeRepository) Unused(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, bc := range r.codes[userID] {
		if !bc.Used {
			count++
		}
	}
	return count
}
