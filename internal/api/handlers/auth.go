package handlers

import (
	"errors"
	"fmt"
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mfa"
	"inkwell/internal/models"
	"inkwell/internal/ratelimit"
	"inkwell/internal/repository"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler sequences the login and step-up verification flows: rate limit
// gate, credential check, active check, MFA gate, token issuance.
type AuthHandler struct {
	userRepo    repository.UserRepository
	authService *auth.Service
	vault       *mfa.Vault
	limiter     *ratelimit.Limiter
	config      *config.Config
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(
	userRepo repository.UserRepository,
	authService *auth.Service,
	vault *mfa.Vault,
	limiter *ratelimit.Limiter,
	config *config.Config,
) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		authService: authService,
		vault:       vault,
		limiter:     limiter,
		config:      config,
	}
}

// Register godoc
// @Summary Register new user
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "User registration details"
// @Success 201 {object} models.User "User created successfully"
// @Failure 400 {object} models.ErrorResponse "Invalid request format or validation error"
// @Failure 403 {object} models.ErrorResponse "Registration is disabled"
// @Failure 409 {object} models.ErrorResponse "Email already exists"
// @Failure 500 {object} models.ErrorResponse "Failed to create user"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if !h.config.Auth.RegistrationOpen {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "registration is disabled"})
		return
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process registration"})
		return
	}

	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsVerified:     true,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return a bearer token, or an MFA-required signal when a backup code must follow
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.TokenResponse "Login successful"
// @Success 202 {object} models.MFARequiredResponse "MFA verification required"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials or inactive account"
// @Failure 429 {object} models.ErrorResponse "Too many failed login attempts"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ipAddress := c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Rate limit gate comes first: a locked-out IP gets no credential work
	// and learns nothing about whether the account exists.
	if !h.admit(c, ipAddress) {
		return
	}

	// Unknown email and wrong password collapse to the same denial so the
	// endpoint cannot be used for account enumeration.
	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.recordAttempt(c, ipAddress, false, nil, userAgent)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "incorrect email or password"})
		return
	}

	if err := h.authService.ComparePasswords(user.HashedPassword, req.Password); err != nil {
		h.recordAttempt(c, ipAddress, false, &user.ID, userAgent)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "incorrect email or password"})
		return
	}

	if !user.IsActive {
		h.recordAttempt(c, ipAddress, false, &user.ID, userAgent)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "account is deactivated"})
		return
	}

	if user.MFAEnabled {
		// Password stage passed, so the attempt counts as a success: the
		// legitimate user should not be double-penalized for the second
		// round trip. No token yet.
		h.recordAttempt(c, ipAddress, true, &user.ID, userAgent)
		c.Header("X-MFA-Required", "true")
		c.Header("X-User-ID", user.ID.String())
		c.JSON(http.StatusAccepted, models.MFARequiredResponse{
			Message: "MFA verification required",
			UserID:  user.ID.String(),
		})
		return
	}

	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate access token"})
		return
	}

	h.recordAttempt(c, ipAddress, true, &user.ID, userAgent)

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	})
}

// VerifyMFA godoc
// @Summary Verify MFA backup code
// @Description Complete a login that was answered with an MFA-required signal by submitting a backup code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.VerifyMFARequest true "Step-up verification details"
// @Success 200 {object} models.TokenResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.ErrorResponse "Invalid backup code"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 429 {object} models.ErrorResponse "Too many failed login attempts"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/verify-mfa [post]
func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	ipAddress := c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	var req models.VerifyMFARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if !h.admit(c, ipAddress) {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		h.recordAttempt(c, ipAddress, false, nil, userAgent)
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
		return
	}

	consumed, err := h.vault.Consume(c.Request.Context(), user.ID, req.BackupCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to verify backup code"})
		return
	}
	if !consumed {
		h.recordAttempt(c, ipAddress, false, &user.ID, userAgent)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid backup code"})
		return
	}

	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate access token"})
		return
	}

	h.recordAttempt(c, ipAddress, true, &user.ID, userAgent)

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me godoc
// @Summary Get current user
// @Description Return the authenticated user's account
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse "Unauthenticated"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password change details"
// @Success 200 {object} models.SuccessResponse "Password changed"
// @Failure 400 {object} models.ErrorResponse "Invalid request or wrong current password"
// @Failure 401 {object} models.ErrorResponse "Unauthenticated"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthenticated"})
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.ComparePasswords(user.HashedPassword, req.CurrentPassword); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "current password is incorrect"})
		return
	}

	hashedPassword, err := h.authService.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process password"})
		return
	}

	if err := h.userRepo.UpdatePassword(c.Request.Context(), user.ID, hashedPassword); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update password"})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "password changed successfully"})
}

// RateLimitStatus godoc
// @Summary Login rate limit status
// @Description Report remaining login attempts for the caller's IP. Read-only, no side effects.
// @Tags auth
// @Produce json
// @Success 200 {object} models.RateLimitStatusResponse
// @Router /auth/limits [get]
func (h *AuthHandler) RateLimitStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.RateLimitStatusResponse{
		RemainingAttempts: h.limiter.Remaining(c.Request.Context(), c.ClientIP()),
		MaxAttempts:       h.limiter.MaxAttempts(),
		WindowSeconds:     int(h.limiter.Window().Seconds()),
	})
}

// admit runs the rate limit gate and writes the denial response itself when
// the IP is locked out. It reports whether the flow may continue.
func (h *AuthHandler) admit(c *gin.Context, ipAddress string) bool {
	allowed, err := h.limiter.Check(c.Request.Context(), ipAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process login"})
		return false
	}
	if !allowed {
		remaining := h.limiter.Remaining(c.Request.Context(), ipAddress)
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error: fmt.Sprintf("too many login attempts, please try again in %d minutes", int(h.limiter.Window().Minutes())),
		})
		return false
	}
	return true
}

// recordAttempt writes the outcome to the rate limiter. A failed ledger write
// degrades the audit trail, not the response, so it is logged and the flow
// continues.
func (h *AuthHandler) recordAttempt(c *gin.Context, ip string, success bool, userID *uuid.UUID, userAgent string) {
	if err := h.limiter.Record(c.Request.Context(), ip, success, userID, userAgent); err != nil {
		log.Printf("failed to record login attempt for %s: %v", ip, err)
	}
}
