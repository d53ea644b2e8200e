package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

type AdminHandler struct {
	adminController *services.AdminController
}

func NewAdminHandler(adminController *services.AdminController) *AdminHandler {
	return &AdminHandler{adminController: adminController}
}

func (h *AdminHandler) SetOverride(c *gin.Context) {
	actorID := c.GetInt64("user_id")

	var req models.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if err := h.adminController.SetOverride(c.Request.Context(), actorID, req.PlayerID, req.WinProbability); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"override": models.BiasOverride{
			PlayerID:       req.PlayerID,
			WinProbability: req.WinProbability,
		},
	})
}

func (h *AdminHandler) RemoveOverride(c *gin.Context) {
	actorID := c.GetInt64("user_id")

	playerID, err := strconv.ParseInt(c.Param("player_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
		return
	}

	if err := h.adminController.RemoveOverride(c.Request.Context(), actorID, playerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListOverrides(c *gin.Context) {
	actorID := c.GetInt64("user_id")

	overrides, err := h.adminController.ListOverrides(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"overrides": overrides,
		"count":     len(overrides),
	})
}
