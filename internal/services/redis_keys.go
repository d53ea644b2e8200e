package services

import "time"

const (
	KeyUserSession    = "user:%d:session:%s"
	KeyWallet         = "wallet:%d"
	KeyWalletDedup    = "wallet:dedup:%s"
	KeyGameSession    = "game:session:%s"
	KeyPlayerActive   = "player:%d:active_game"
	KeyActiveGames    = "games:active"
	KeyPlayerHistory  = "player:%d:completed_games"
	KeyTransaction    = "transaction:%s"
	KeyPlayerTxs      = "player:%d:transactions"
	KeyBiasOverrides  = "bias:overrides"
	KeyOperators      = "admins:operators"
	KeyPendingCredits = "credits:pending"
	KeyRateLimit      = "ratelimit:%d:%s"

	TTLUserSession = 24 * time.Hour
	TTLGameSession = 7 * 24 * time.Hour
	TTLTransaction = 30 * 24 * time.Hour
	TTLWalletDedup = 30 * 24 * time.Hour

	StartingBalance = 10000

	HistoryKeepCount = 100
)
