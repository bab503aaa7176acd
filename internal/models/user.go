package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account in the system
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Avatar         *string   `json:"avatar"`
	Color          string    `json:"color"`
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
	MFAEnabled     bool      `json:"mfa_enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterRequest represents the request to create a new user account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100" example:"Alice Smith"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72,nospaces" example:"Secure123!"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"Secure123!"`
}

// VerifyMFARequest represents the step-up verification request that follows
// a login answered with an MFA-required signal
type VerifyMFARequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required" example:"c7b7caa2-65e4-4e72-9e3f-2a0f5f8c9d10"`
	BackupCode string    `json:"backup_code" binding:"required,len=8" example:"A1B2C3D4"`
}

// ChangePasswordRequest represents the request to change the current user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72,nospaces"`
}
