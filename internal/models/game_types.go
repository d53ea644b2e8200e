package models

type StartRequest struct {
	Wager     int64 `json:"wager" binding:"required"`
	RiskLevel int   `json:"risk_level" binding:"required"`
}

type StartResponse struct {
	GameID     string  `json:"game_id"`
	Wager      int64   `json:"wager"`
	RiskLevel  int     `json:"risk_level"`
	Multiplier float64 `json:"multiplier"`
	Status     string  `json:"status"`
}

type RevealRequest struct {
	GameID string `json:"game_id" binding:"required"`
	Row    int    `json:"row" binding:"min=0,max=4"`
	Col    int    `json:"col" binding:"min=0,max=4"`
}

type RevealResponse struct {
	GameID          string  `json:"game_id"`
	IsHazard        bool    `json:"is_hazard"`
	Multiplier      float64 `json:"multiplier"`
	SafeRevealed    int     `json:"safe_revealed"`
	Revealed        []int   `json:"revealed"`
	HazardPositions []int   `json:"hazard_positions,omitempty"`
	GameOver        bool    `json:"game_over"`
	Status          string  `json:"status"`
	Payout          int64   `json:"payout,omitempty"`
}

type CashoutRequest struct {
	GameID string `json:"game_id" binding:"required"`
}

type CashoutResponse struct {
	GameID          string  `json:"game_id"`
	Multiplier      float64 `json:"multiplier"`
	SafeRevealed    int     `json:"safe_revealed"`
	HazardPositions []int   `json:"hazard_positions"`
	Payout          int64   `json:"payout"`
	Status          string  `json:"status"`
}

type OverrideRequest struct {
	PlayerID       int64   `json:"player_id" binding:"required"`
	WinProbability float64 `json:"win_probability"`
}
