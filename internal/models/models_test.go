package models_test

import (
	"testing"

	"mines-rewards-backend/internal/models"
)

func TestBoardHelpers(t *testing.T) {
	var board models.Board

	board.At(0, 0).HasHazard = true
	board.At(4, 4).HasHazard = true
	board.At(2, 3).Revealed = true

	if got := board.HazardCount(); got != 2 {
		t.Errorf("HazardCount = %d, want 2", got)
	}
	if got := board.HazardPositions(); len(got) != 2 || got[0] != 0 || got[1] != 24 {
		t.Errorf("HazardPositions = %v, want [0 24]", got)
	}
	if got := board.RevealedPositions(); len(got) != 1 || got[0] != 13 {
		t.Errorf("RevealedPositions = %v, want [13]", got)
	}

	if board.InBounds(5, 0) || board.InBounds(0, 5) || board.InBounds(-1, 0) {
		t.Error("out-of-range coordinates reported in bounds")
	}
	if !board.InBounds(0, 0) || !board.InBounds(4, 4) {
		t.Error("corner coordinates reported out of bounds")
	}

	board.RevealAll()
	if got := len(board.RevealedPositions()); got != models.BoardCells {
		t.Errorf("RevealAll left %d cells revealed, want %d", got, models.BoardCells)
	}
}

func TestStatusTerminal(t *testing.T) {
	if models.StatusActive.Terminal() {
		t.Error("active should not be terminal")
	}
	for _, s := range []models.GameStatus{
		models.StatusWonByClear,
		models.StatusLostByHazard,
		models.StatusCashedOut,
	} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestWagerValidation(t *testing.T) {
	for _, w := range []int64{5, 100, 1_000_000} {
		if !models.ValidWager(w) {
			t.Errorf("ValidWager(%d) = false, want true", w)
		}
	}
	for _, w := range []int64{0, 4, -10, 1_000_001} {
		if models.ValidWager(w) {
			t.Errorf("ValidWager(%d) = true, want false", w)
		}
	}
}

func TestRiskValidation(t *testing.T) {
	for _, r := range []int{1, 12, 24} {
		if !models.ValidRiskLevel(r) {
			t.Errorf("ValidRiskLevel(%d) = false, want true", r)
		}
	}
	for _, r := range []int{0, -1, 25} {
		if models.ValidRiskLevel(r) {
			t.Errorf("ValidRiskLevel(%d) = true, want false", r)
		}
	}
}

func TestSafeCellTotal(t *testing.T) {
	session := &models.GameSession{RiskLevel: 24}
	if got := session.SafeCellTotal(); got != 1 {
		t.Errorf("SafeCellTotal at risk 24 = %d, want 1", got)
	}

	session.RiskLevel = 5
	if got := session.SafeCellTotal(); got != 20 {
		t.Errorf("SafeCellTotal at risk 5 = %d, want 20", got)
	}
}

func TestGenerateIDs(t *testing.T) {
	if models.GenerateGameID() == models.GenerateGameID() {
		t.Error("game IDs should be unique")
	}
	if models.GenerateTransactionID() == "" {
		t.Error("transaction ID should not be empty")
	}
}
