package models

// BiasOverride is an operator-authored per-player win probability.
// Absence of a record means the player plays at the default probability.
type BiasOverride struct {
	PlayerID       int64   `json:"player_id"`
	WinProbability float64 `json:"win_probability"`
}

const DefaultWinProbability = 0.5
