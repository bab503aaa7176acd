// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"inkwell/internal/api/handlers"
	"inkwell/internal/api/middleware"
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mfa"
	"inkwell/internal/models"
	"inkwell/internal/ratelimit"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestConfig returns a config with test defaults, no environment required
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.API.Port = "8080"
	cfg.Auth = config.AuthConfig{
		JWTSecret:        "test_secret_key",
		JWTExpiration:    24,
		RegistrationOpen: true,
	}
	cfg.LoginLimit = config.LoginLimitConfig{
		MaxAttempts:    3,
		LockoutMinutes: 30,
	}
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Window = 60
	cfg.RateLimit.Burst = 50
	return cfg
}

// TestContext holds common test dependencies. Stores are in-memory fakes and
// the fast counter tier runs on miniredis.
type TestContext struct {
	T              *testing.T
	Config         *config.Config
	UserRepo       *FakeUserRepository
	AttemptRepo    *FakeLoginAttemptRepository
	BackupCodeRepo *FakeBackupCodeRepository
	Redis          *miniredis.Miniredis
	RedisClient    *redis.Client
	AuthService    *auth.Service
	Vault          *mfa.Vault
	Limiter        *ratelimit.Limiter
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// NewTestContext wires the full auth stack over fakes
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := TestConfig(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	userRepo := NewFakeUserRepository()
	attemptRepo := NewFakeLoginAttemptRepository()
	backupCodeRepo := NewFakeBackupCodeRepository()

	authService := auth.NewService(cfg)
	vault := mfa.NewVault(backupCodeRepo)
	limiter := ratelimit.New(
		ratelimit.NewRedisCounterStore(client),
		attemptRepo,
		ratelimit.Config{
			MaxAttempts:   cfg.LoginLimit.MaxAttempts,
			LockoutWindow: time.Duration(cfg.LoginLimit.LockoutMinutes) * time.Minute,
		},
	)

	return &TestContext{
		T:              t,
		Config:         cfg,
		UserRepo:       userRepo,
		AttemptRepo:    attemptRepo,
		BackupCodeRepo: backupCodeRepo,
		Redis:          mr,
		RedisClient:    client,
		AuthService:    authService,
		Vault:          vault,
		Limiter:        limiter,
		AuthHandler:    handlers.NewAuthHandler(userRepo, authService, vault, limiter, cfg),
		AuthMiddleware: middleware.NewAuthMiddleware(authService, userRepo),
	}
}

// Router builds a gin engine with the auth routes wired the same way as the
// production route setup
func (tc *TestContext) Router() *gin.Engine {
	r := gin.New()

	v1 := r.Group("/api/v1")
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", tc.AuthHandler.Register)
		authRoutes.POST("/login", tc.AuthHandler.Login)
		authRoutes.POST("/verify-mfa", tc.AuthHandler.VerifyMFA)
		authRoutes.GET("/limits", tc.AuthHandler.RateLimitStatus)
		authRoutes.GET("/me", tc.AuthMiddleware.AuthRequired(), tc.AuthHandler.Me)
		authRoutes.PUT("/password", tc.AuthMiddleware.AuthRequired(), tc.AuthHandler.ChangePassword)

		mfaRoutes := authRoutes.Group("/mfa")
		mfaRoutes.Use(tc.AuthMiddleware.AuthRequired())
		{
			mfaRoutes.POST("/enable", tc.AuthHandler.EnableMFA)
			mfaRoutes.POST("/disable", tc.AuthHandler.DisableMFA)
			mfaRoutes.POST("/regenerate", tc.AuthHandler.RegenerateBackupCodes)
		}
	}
	return r
}

// CreateTestUser creates an active user with the given password
func (tc *TestContext) CreateTestUser(name, email, password string, mfaEnabled bool) *models.User {
	tc.T.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(tc.T, err)

	user := &models.User{
		Name:           name,
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
		IsVerified:     true,
		MFAEnabled:     mfaEnabled,
	}
	require.NoError(tc.T, tc.UserRepo.Create(context.Background(), user))
	return user
}

// TokenFor issues a bearer token for the user
func (tc *TestContext) TokenFor(userID uuid.UUID) string {
	tc.T.Helper()

	token, err := tc.AuthService.GenerateToken(userID)
	require.NoError(tc.T, err)
	return token
}
