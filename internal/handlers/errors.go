package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mines-rewards-backend/internal/services"
)

// respondError maps the service error taxonomy onto HTTP statuses. Expected
// conditions come back as typed JSON, not 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidWager),
		errors.Is(err, services.ErrInvalidRisk),
		errors.Is(err, services.ErrInvalidProbability):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameters", "details": err.Error()})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance", "details": err.Error()})
	case errors.Is(err, services.ErrSessionAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "Active game already in progress", "details": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid game state", "details": err.Error()})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, services.ErrExternalService):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}
