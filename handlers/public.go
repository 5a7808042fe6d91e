package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nikahlink/services/invitation"
	"nikahlink/utils"
)

// PublicHandler serves the unauthenticated invitation pages: rendering data,
// RSVP submission and the wishes wall.
type PublicHandler struct {
	InvitationService invitation.InvitationService
}

// GetInvitationHandler handles GET /invitation?id=...&to=... The optional
// `to` value is the share-link guest name; resolving it stamps the guest's
// first open.
func (h *PublicHandler) GetInvitationHandler(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing invitation id", "")
		return
	}
	guestName := invitation.DecodeGuestName(c.Query("to"))

	inv, err := h.InvitationService.GetPublic(c.Request.Context(), id, guestName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitation": inv, "guestName": guestName})
}

// SubmitRSVPHandler handles POST /invitation/:id/rsvp.
func (h *PublicHandler) SubmitRSVPHandler(c *gin.Context) {
	var req invitation.RSVPInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	guest, err := h.InvitationService.SubmitRSVP(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// ListWishesHandler handles GET /invitation/:id/wishes.
func (h *PublicHandler) ListWishesHandler(c *gin.Context) {
	wishes, err := h.InvitationService.ListWishes(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wishes)
}
