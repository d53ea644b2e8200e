package services

import "mines-rewards-backend/internal/models"

// Broadcaster pushes balance and settlement events to connected clients.
type Broadcaster interface {
	BroadcastBalance(playerID int64, balance int64)
	BroadcastSettlement(session *models.GameSession)
}
