package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nikahlink/services/user"
	"nikahlink/utils"
)

// UserHandler serves the account endpoints.
type UserHandler struct {
	UserService user.UserService
}

// GetProfileHandler handles GET /api/users/me.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	usr, err := h.UserService.GetByID(requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateProfileHandler handles PUT /api/users/me.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	var req user.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	usr, err := h.UserService.UpdateProfile(requesterID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// GetStatsHandler handles GET /api/users/me/stats.
func (h *UserHandler) GetStatsHandler(c *gin.Context) {
	stats, err := h.UserService.Stats(requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
