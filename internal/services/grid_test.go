package services_test

import (
	"errors"
	"testing"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

func TestGenerateHazardCounts(t *testing.T) {
	gen := services.NewGridGenerator(1)

	for risk := models.MinRiskLevel; risk <= models.MaxRiskLevel; risk++ {
		board, err := gen.Generate(risk, 0.5)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", risk, err)
		}

		if got := board.HazardCount(); got != risk {
			t.Errorf("Generate(%d) placed %d hazards", risk, got)
		}

		for i, cell := range board.Cells {
			if cell.Revealed {
				t.Errorf("Generate(%d) cell %d already revealed", risk, i)
			}
		}
	}
}

func TestGenerateInvalidRisk(t *testing.T) {
	gen := services.NewGridGenerator(1)

	for _, risk := range []int{0, -3, 25, 30} {
		if _, err := gen.Generate(risk, 0.5); !errors.Is(err, services.ErrInvalidRisk) {
			t.Errorf("Generate(%d) = %v, want ErrInvalidRisk", risk, err)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	gen1 := services.NewGridGenerator(42)
	gen2 := services.NewGridGenerator(42)

	for i := 0; i < 10; i++ {
		b1, err := gen1.Generate(5, 0.5)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		b2, err := gen2.Generate(5, 0.5)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if *b1 != *b2 {
			t.Fatalf("boards differ for identical seeds on draw %d", i)
		}
	}
}

func TestGenerateAlwaysLeavesSafeCell(t *testing.T) {
	gen := services.NewGridGenerator(7)

	// The win-probability draw guarantees a safe cell floor; at risk 24 the
	// board must still have exactly one safe cell whatever the draw.
	for _, p := range []float64{0.0, 0.5, 1.0} {
		for i := 0; i < 50; i++ {
			board, err := gen.Generate(24, p)
			if err != nil {
				t.Fatalf("Generate(24, %v) failed: %v", p, err)
			}
			if got := board.HazardCount(); got != 24 {
				t.Fatalf("Generate(24, %v) placed %d hazards", p, got)
			}
		}
	}
}
