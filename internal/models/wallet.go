package models

import "time"

type Wallet struct {
	PlayerID     int64 `json:"player_id" redis:"player_id"`
	Balance      int64 `json:"balance" redis:"balance"`
	TotalWagered int64 `json:"total_wagered" redis:"total_wagered"`
	TotalWon     int64 `json:"total_won" redis:"total_won"`
}

type TransactionType string

const (
	TransactionTypeWager  TransactionType = "wager"
	TransactionTypePayout TransactionType = "payout"
	TransactionTypeRefund TransactionType = "refund"
)

type Transaction struct {
	ID           string          `json:"id" redis:"id"`
	PlayerID     int64           `json:"player_id" redis:"player_id"`
	Type         TransactionType `json:"type" redis:"type"`
	Amount       int64           `json:"amount" redis:"amount"`
	BalanceAfter int64           `json:"balance_after" redis:"balance_after"`
	GameID       string          `json:"game_id,omitempty" redis:"game_id,omitempty"`
	Description  string          `json:"description" redis:"description"`
	CreatedAt    time.Time       `json:"created_at" redis:"created_at"`
}

// PendingCredit is a settlement credit waiting for the wallet service to
// accept it. Replays are deduplicated by the idempotency key.
type PendingCredit struct {
	PlayerID       int64  `json:"player_id"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

type BalanceResponse struct {
	Balance      int64 `json:"balance"`
	TotalWagered int64 `json:"total_wagered"`
	TotalWon     int64 `json:"total_won"`
}
