package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nikahlink/models"
	"nikahlink/services/invitation"
	"nikahlink/services/quota"
	"nikahlink/utils"
)

// InvitationHandler serves the owner-facing invitation endpoints.
type InvitationHandler struct {
	InvitationService invitation.InvitationService
	QuotaGuard        quota.Guard
}

// CreateInvitationHandler handles POST /api/invitations.
func (h *InvitationHandler) CreateInvitationHandler(c *gin.Context) {
	var req models.InvitationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	inv, err := h.InvitationService.Create(c.Request.Context(), requesterID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListInvitationsHandler handles GET /api/invitations.
func (h *InvitationHandler) ListInvitationsHandler(c *gin.Context) {
	invs, err := h.InvitationService.ListByOwner(requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invs)
}

// UpdateInvitationHandler handles PUT /api/invitations/:id.
func (h *InvitationHandler) UpdateInvitationHandler(c *gin.Context) {
	var req models.InvitationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	inv, err := h.InvitationService.Update(c.Request.Context(), requesterID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// DeleteInvitationHandler handles DELETE /api/invitations/:id.
func (h *InvitationHandler) DeleteInvitationHandler(c *gin.Context) {
	if err := h.InvitationService.Delete(c.Request.Context(), requesterID(c), c.Param("id"), false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation deleted"})
}

// GetQuotaHandler handles GET /api/invitations/:id/quota.
func (h *InvitationHandler) GetQuotaHandler(c *gin.Context) {
	res, err := h.QuotaGuard.Check(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AddGuestHandler handles POST /api/invitations/:id/guests. A share link
// slot is consumed on success.
func (h *InvitationHandler) AddGuestHandler(c *gin.Context) {
	var req invitation.GuestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	guest, link, err := h.InvitationService.AddGuest(c.Request.Context(), requesterID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"guest": guest, "shareLink": link})
}

// ListGuestsHandler handles GET /api/invitations/:id/guests.
func (h *InvitationHandler) ListGuestsHandler(c *gin.Context) {
	guests, err := h.InvitationService.ListGuests(requesterID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

// DeleteGuestHandler handles DELETE /api/invitations/:id/guests/:guestId.
func (h *InvitationHandler) DeleteGuestHandler(c *gin.Context) {
	err := h.InvitationService.DeleteGuest(c.Request.Context(), requesterID(c), c.Param("id"), c.Param("guestId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest deleted"})
}

// ExportGuestsHandler handles GET /api/invitations/:id/guests/export and
// streams the CSV download.
func (h *InvitationHandler) ExportGuestsHandler(c *gin.Context) {
	out, err := h.InvitationService.ExportGuestsCSV(requesterID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("daftar_tamu_%d.csv", time.Now().UnixMilli())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}
