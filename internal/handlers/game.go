package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

type GameHandler struct {
	gameEngine   *services.GameEngine
	redisService *services.RedisService
}

func NewGameHandler(gameEngine *services.GameEngine, redisService *services.RedisService) *GameHandler {
	return &GameHandler{
		gameEngine:   gameEngine,
		redisService: redisService,
	}
}

func (h *GameHandler) Start(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.gameEngine.Start(c.Request.Context(), playerID, req.Wager, req.RiskLevel)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game": models.StartResponse{
			GameID:     session.ID,
			Wager:      session.Wager,
			RiskLevel:  session.RiskLevel,
			Multiplier: session.Multiplier,
			Status:     string(session.Status),
		},
	})
}

func (h *GameHandler) Reveal(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	var req models.RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.gameEngine.Reveal(c.Request.Context(), playerID, req.GameID, req.Row, req.Col)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.RevealResponse{
		GameID:       session.ID,
		IsHazard:     session.Status == models.StatusLostByHazard,
		Multiplier:   session.Multiplier,
		SafeRevealed: session.SafeRevealed,
		Revealed:     session.Board.RevealedPositions(),
		GameOver:     session.Status.Terminal(),
		Status:       string(session.Status),
		Payout:       session.Payout,
	}
	// Hazard positions stay server-side until the game is over.
	if session.Status.Terminal() {
		resp.HazardPositions = session.Board.HazardPositions()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  resp,
	})
}

func (h *GameHandler) Cashout(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	var req models.CashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.gameEngine.CashOut(c.Request.Context(), playerID, req.GameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": models.CashoutResponse{
			GameID:          session.ID,
			Multiplier:      session.Multiplier,
			SafeRevealed:    session.SafeRevealed,
			HazardPositions: session.Board.HazardPositions(),
			Payout:          session.Payout,
			Status:          string(session.Status),
		},
	})
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	wallet, err := h.redisService.GetWallet(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": models.BalanceResponse{
			Balance:      wallet.Balance,
			TotalWagered: wallet.TotalWagered,
			TotalWon:     wallet.TotalWon,
		},
	})
}

func (h *GameHandler) GetActiveGame(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	session, err := h.redisService.ActiveSession(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"game":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game": gin.H{
			"id":            session.ID,
			"wager":         session.Wager,
			"risk_level":    session.RiskLevel,
			"multiplier":    session.Multiplier,
			"safe_revealed": session.SafeRevealed,
			"revealed":      session.Board.RevealedPositions(),
			"status":        session.Status,
			"created_at":    session.CreatedAt,
			"updated_at":    session.UpdatedAt,
		},
	})
}

func (h *GameHandler) GetGameHistory(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	games, err := h.redisService.GetGameHistory(c.Request.Context(), playerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	var response []gin.H
	for _, game := range games {
		response = append(response, gin.H{
			"id":            game.ID,
			"wager":         game.Wager,
			"risk_level":    game.RiskLevel,
			"multiplier":    game.Multiplier,
			"safe_revealed": game.SafeRevealed,
			"payout":        game.Payout,
			"status":        game.Status,
			"created_at":    game.CreatedAt,
			"ended_at":      game.EndedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   response,
		"count":   len(response),
	})
}

func (h *GameHandler) GetTransactions(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	transactions, err := h.redisService.GetTransactions(c.Request.Context(), playerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": transactions,
		"count":        len(transactions),
	})
}
