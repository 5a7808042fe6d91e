package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nikahlink/services/admin"
	"nikahlink/services/invitation"
	"nikahlink/services/quota"
	"nikahlink/services/upgrade"
	"nikahlink/services/user"
	"nikahlink/utils"
)

// respondError maps service sentinel errors onto HTTP statuses. Anything
// unmapped is an infrastructure failure and reported as a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, invitation.ErrNotFound),
		errors.Is(err, invitation.ErrGuestNotFound),
		errors.Is(err, quota.ErrInvitationNotFound),
		errors.Is(err, upgrade.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, admin.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, invitation.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, invitation.ErrPlanLimitExceeded),
		errors.Is(err, quota.ErrQuotaExhausted),
		errors.Is(err, upgrade.ErrAlreadyFinal):
		status = http.StatusConflict
	case errors.Is(err, invitation.ErrMissingRequiredField),
		errors.Is(err, upgrade.ErrMissingProof),
		errors.Is(err, upgrade.ErrUnknownPlan):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		utils.GetLogger().Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requesterID returns the authenticated user id injected by the auth
// middleware.
func requesterID(c *gin.Context) string {
	return c.GetString("userID")
}
