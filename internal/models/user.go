package models

import "time"

type UserSession struct {
	PlayerID     int64     `json:"player_id" redis:"player_id"`
	SessionID    string    `json:"session_id" redis:"session_id"`
	Username     string    `json:"username" redis:"username"`
	Operator     bool      `json:"operator" redis:"operator"`
	CreatedAt    time.Time `json:"created_at" redis:"created_at"`
	LastAccessed time.Time `json:"last_accessed" redis:"last_accessed"`
}
