package handlers

import (
	"inkwell/internal/auth"
	"inkwell/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EnableMFA godoc
// @Summary Enable MFA
// @Description Enable backup-code MFA for the authenticated user and return a fresh code batch
// @Tags mfa
// @Produce json
// @Success 200 {object} models.BackupCodesResponse "Backup codes issued"
// @Failure 400 {object} models.ErrorResponse "MFA already enabled"
// @Failure 401 {object} models.ErrorResponse "Unauthenticated"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /auth/mfa/enable [post]
func (h *AuthHandler) EnableMFA(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if user.MFAEnabled {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "MFA is already enabled"})
		return
	}

	codes, err := h.vault.Issue(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate backup codes"})
		return
	}

	if err := h.userRepo.SetMFAEnabled(c.Request.Context(), user.ID, true); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to enable MFA"})
		return
	}

	c.JSON(http.StatusOK, models.BackupCodesResponse{BackupCodes: codes})
}

// DisableMFA godoc
// @Summary Disable MFA
// @Description Disable backup-code MFA for the authenticated user and delete any remaining codes
// @Tags mfa
// @Produce json
// @Success 200 {object} models.SuccessResponse "MFA disabled"
// @Failure 400 {object} models.ErrorResponse "MFA not enabled"
// @Failure 401 {object} models.ErrorResponse "Unauthenticated"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /auth/mfa/disable [post]
func (h *AuthHandler) DisableMFA(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if !user.MFAEnabled {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "MFA is not enabled"})
		return
	}

	if err := h.userRepo.SetMFAEnabled(c.Request.Context(), user.ID, false); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to disable MFA"})
		return
	}

	if err := h.vault.Revoke(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete backup codes"})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "MFA disabled successfully"})
}

// RegenerateBackupCodes godoc
// @Summary Regenerate backup codes
// @Description Replace the authenticated user's backup codes with a fresh batch
// @Tags mfa
// @Produce json
// @Success 200 {object} models.BackupCodesResponse "Backup codes issued"
// @Failure 400 {object} models.ErrorResponse "MFA not enabled"
// @Failure 401 {object} models.ErrorResponse "Unauthenticated"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /auth/mfa/regenerate [post]
func (h *AuthHandler) RegenerateBackupCodes(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if !user.MFAEnabled {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "MFA is not enabled"})
		return
	}

	codes, err := h.vault.Issue(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate backup codes"})
		return
	}

	c.JSON(http.StatusOK, models.BackupCodesResponse{BackupCodes: codes})
}
