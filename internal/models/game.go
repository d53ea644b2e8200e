package models

import "time"

type GameStatus string

const (
	StatusActive       GameStatus = "active"
	StatusWonByClear   GameStatus = "won_by_clear"
	StatusLostByHazard GameStatus = "lost_by_hazard"
	StatusCashedOut    GameStatus = "cashed_out"
)

// Terminal reports whether the status is final. No transition leaves a
// terminal status.
func (s GameStatus) Terminal() bool {
	switch s {
	case StatusWonByClear, StatusLostByHazard, StatusCashedOut:
		return true
	}
	return false
}

const (
	BoardRows  = 5
	BoardCols  = 5
	BoardCells = BoardRows * BoardCols

	MinRiskLevel = 1
	MaxRiskLevel = 24

	MinWager = 5
	MaxWager = 1_000_000
)

type Cell struct {
	HasHazard bool `json:"has_hazard"`
	Revealed  bool `json:"revealed"`
}

// Board is a 5x5 grid stored row-major. Hazard positions are fixed at
// generation; only the Revealed flags change afterwards.
type Board struct {
	Cells [BoardCells]Cell `json:"cells"`
}

func (b *Board) At(row, col int) *Cell {
	return &b.Cells[row*BoardCols+col]
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardRows && col >= 0 && col < BoardCols
}

func (b *Board) HazardCount() int {
	n := 0
	for i := range b.Cells {
		if b.Cells[i].HasHazard {
			n++
		}
	}
	return n
}

// RevealAll flips every cell to revealed, for settlement display.
func (b *Board) RevealAll() {
	for i := range b.Cells {
		b.Cells[i].Revealed = true
	}
}

// HazardPositions returns the flat indexes of all hazard cells.
func (b *Board) HazardPositions() []int {
	var positions []int
	for i := range b.Cells {
		if b.Cells[i].HasHazard {
			positions = append(positions, i)
		}
	}
	return positions
}

// RevealedPositions returns the flat indexes of all revealed cells.
func (b *Board) RevealedPositions() []int {
	var positions []int
	for i := range b.Cells {
		if b.Cells[i].Revealed {
			positions = append(positions, i)
		}
	}
	return positions
}

type GameSession struct {
	ID       string `json:"id" redis:"id"`
	PlayerID int64  `json:"player_id" redis:"player_id"`

	Wager     int64 `json:"wager" redis:"wager"`
	RiskLevel int   `json:"risk_level" redis:"risk_level"`

	Board        Board   `json:"board"`
	Multiplier   float64 `json:"multiplier" redis:"multiplier"`
	SafeRevealed int     `json:"safe_revealed" redis:"safe_revealed"`

	Status GameStatus `json:"status" redis:"status"`
	Payout int64      `json:"payout" redis:"payout"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}

// SafeCellTotal is the number of non-hazard cells on the board.
func (s *GameSession) SafeCellTotal() int {
	return BoardCells - s.RiskLevel
}
