package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

// AuthHandler is the stand-in for the hosted auth service: it exchanges a
// shared secret plus a player identity for a JWT. Operator status is decided
// by the authorization collaborator, not by the request.
type AuthHandler struct {
	redisService *services.RedisService
	jwtService   *services.JWTService
	authSecret   string
}

func NewAuthHandler(redisService *services.RedisService, jwtService *services.JWTService, authSecret string) *AuthHandler {
	return &AuthHandler{
		redisService: redisService,
		jwtService:   jwtService,
		authSecret:   authSecret,
	}
}

func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req struct {
		PlayerID int64  `json:"player_id" binding:"required"`
		Username string `json:"username"`
		Secret   string `json:"secret" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.authSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	operator, err := h.redisService.IsAuthorized(c.Request.Context(), req.PlayerID)
	if err != nil {
		operator = false
	}

	token, sessionID, err := h.jwtService.GenerateToken(req.PlayerID, operator)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	session := &models.UserSession{
		PlayerID:     req.PlayerID,
		SessionID:    sessionID,
		Username:     req.Username,
		Operator:     operator,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}
	if err := h.redisService.StoreUserSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"token":    token,
		"operator": operator,
	})
}
