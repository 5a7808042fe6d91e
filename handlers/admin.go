package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nikahlink/models"
	"nikahlink/services/admin"
	"nikahlink/services/invitation"
	"nikahlink/services/upgrade"
	"nikahlink/utils"
)

// AdminHandler serves the admin panel endpoints. Routes using it sit behind
// the admin allowlist middleware.
type AdminHandler struct {
	AdminService      admin.AdminService
	UpgradeService    upgrade.UpgradeService
	InvitationService invitation.InvitationService
}

// OverviewHandler handles GET /api/admin/overview.
func (h *AdminHandler) OverviewHandler(c *gin.Context) {
	ov, err := h.AdminService.Overview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// ListUsersHandler handles GET /api/admin/users.
func (h *AdminHandler) ListUsersHandler(c *gin.Context) {
	rows, err := h.AdminService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UpdateUserHandler handles PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUserHandler(c *gin.Context) {
	var req admin.UserPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	usr, err := h.AdminService.UpdateUser(requesterID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// DeleteUserHandler handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUserHandler(c *gin.Context) {
	if err := h.AdminService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListInvitationsHandler handles GET /api/admin/invitations.
func (h *AdminHandler) ListInvitationsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.AdminService.ListInvitations(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DeleteInvitationHandler handles DELETE /api/admin/invitations/:id.
func (h *AdminHandler) DeleteInvitationHandler(c *gin.Context) {
	if err := h.InvitationService.Delete(c.Request.Context(), requesterID(c), c.Param("id"), true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation deleted"})
}

// ListTransactionsHandler handles GET /api/admin/transactions.
func (h *AdminHandler) ListTransactionsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.AdminService.ListTransactions(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ConfirmTransactionHandler handles POST /api/admin/transactions/:id/confirm.
func (h *AdminHandler) ConfirmTransactionHandler(c *gin.Context) {
	trx, err := h.UpgradeService.Confirm(c.Request.Context(), c.Param("id"), requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

// RejectTransactionHandler handles POST /api/admin/transactions/:id/reject.
func (h *AdminHandler) RejectTransactionHandler(c *gin.Context) {
	trx, err := h.UpgradeService.Reject(c.Request.Context(), c.Param("id"), requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

// GetPackagesHandler handles GET /api/admin/packages.
func (h *AdminHandler) GetPackagesHandler(c *gin.Context) {
	settings, err := h.AdminService.GetPackageSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdatePackagesHandler handles PUT /api/admin/packages.
func (h *AdminHandler) UpdatePackagesHandler(c *gin.Context) {
	var req models.PackageSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	settings, err := h.AdminService.UpdatePackageSettings(requesterID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
