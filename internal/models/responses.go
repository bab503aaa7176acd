package models

// TokenResponse represents the response to a completed login or step-up verification
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string `json:"token_type" example:"bearer"`
	User        *User  `json:"user"`
}

// MFARequiredResponse signals that password verification succeeded but a
// backup code must be submitted before a token is issued
type MFARequiredResponse struct {
	Message string `json:"message" example:"MFA verification required"`
	UserID  string `json:"user_id" example:"c7b7caa2-65e4-4e72-9e3f-2a0f5f8c9d10"`
}

// BackupCodesResponse carries a freshly issued batch of backup codes. This is
// the only time the codes are visible in plain form.
type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

// RateLimitStatusResponse reports login throttling state for the caller's IP
type RateLimitStatusResponse struct {
	RemainingAttempts int `json:"remaining_attempts" example:"3"`
	MaxAttempts       int `json:"max_attempts" example:"3"`
	WindowSeconds     int `json:"window_seconds" example:"1800"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}
