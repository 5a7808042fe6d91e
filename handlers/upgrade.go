package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nikahlink/services/upgrade"
	"nikahlink/utils"
)

// UpgradeHandler serves the plan upgrade endpoints.
type UpgradeHandler struct {
	UpgradeService upgrade.UpgradeService
}

// SubmitUpgradeHandler handles POST /api/upgrade. The request is a multipart
// form with the transfer details and the proof image.
func (h *UpgradeHandler) SubmitUpgradeHandler(c *gin.Context) {
	invitationID := c.PostForm("invitationId")
	if invitationID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing invitationId", "")
		return
	}

	in := upgrade.SubmitInput{
		TargetPlan: c.PostForm("package"),
		SenderName: c.PostForm("senderName"),
		SenderBank: c.PostForm("senderBank"),
	}
	if fileHeader, err := c.FormFile("proof"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Unreadable proof upload", err.Error())
			return
		}
		defer file.Close()
		in.Proof = file
	}

	trx, err := h.UpgradeService.Submit(c.Request.Context(), requesterID(c), invitationID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trx)
}

// ListMyTransactionsHandler handles GET /api/upgrade/transactions.
func (h *UpgradeHandler) ListMyTransactionsHandler(c *gin.Context) {
	trxs, err := h.UpgradeService.ListByUser(requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trxs)
}
