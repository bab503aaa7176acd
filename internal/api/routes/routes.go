// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"
	_ "inkwell/docs" // Import swagger docs
	"inkwell/internal/api/handlers"
	"inkwell/internal/api/middleware"
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mfa"
	"inkwell/internal/ratelimit"
	"inkwell/internal/repository/postgres"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, redisClient *redis.Client) *gin.Engine {
	// Create router
	r := gin.Default()

	// Initialize health handler for basic routes
	healthHandler := handlers.NewHealthHandler(db)

	// Routes without the global throttle
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply the global request throttle to all other routes
	r.Use(middleware.NewRequestLimiter(cfg).Middleware())

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	loginAttemptRepo := postgres.NewLoginAttemptRepository(db)
	backupCodeRepo := postgres.NewBackupCodeRepository(db)

	// Initialize services
	authService := auth.NewService(cfg)
	vault := mfa.NewVault(backupCodeRepo)
	limiter := ratelimit.New(
		ratelimit.NewRedisCounterStore(redisClient),
		loginAttemptRepo,
		ratelimit.Config{
			MaxAttempts:   cfg.LoginLimit.MaxAttempts,
			LockoutWindow: time.Duration(cfg.LoginLimit.LockoutMinutes) * time.Minute,
		},
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, authService, vault, limiter, cfg)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/verify-mfa", authHandler.VerifyMFA)
			authRoutes.GET("/limits", authHandler.RateLimitStatus)
			authRoutes.GET("/me", authMiddleware.AuthRequired(), authHandler.Me)
			authRoutes.PUT("/password", authMiddleware.AuthRequired(), authHandler.ChangePassword)

			mfaRoutes := authRoutes.Group("/mfa")
			mfaRoutes.Use(authMiddleware.AuthRequired())
			{
				mfaRoutes.POST("/enable", authHandler.EnableMFA)
				mfaRoutes.POST("/disable", authHandler.DisableMFA)
				mfaRoutes.POST("/regenerate", authHandler.RegenerateBackupCodes)
			}
		}
	}

	return r
}
