package services

import (
	"fmt"
	"math/rand"
	"sync"

	"mines-rewards-backend/internal/models"
)

// GridGenerator places hazards on fresh boards. The RNG is injected so tests
// can seed it; a mutex guards it because rand.Rand is not safe for
// concurrent use.
type GridGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGridGenerator(seed int64) *GridGenerator {
	return &GridGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a board with exactly riskLevel hazards among 25 cells.
//
// A single coin is drawn against winProbability per board, not per cell.
// When the draw favors a win, the generator confirms at least one safe cell
// remains; placement itself stays uniformly random either way. That keeps
// the draw effectively inert for riskLevel < 25, which matches the traced
// behavior of the operator bias feature as shipped.
func (g *GridGenerator) Generate(riskLevel int, winProbability float64) (*models.Board, error) {
	if !models.ValidRiskLevel(riskLevel) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRisk, riskLevel)
	}

	g.mu.Lock()
	favorWin := g.rng.Float64() < winProbability

	board := &models.Board{}
	placed := 0
	for placed < riskLevel {
		pos := g.rng.Intn(models.BoardCells)
		if board.Cells[pos].HasHazard {
			continue
		}
		board.Cells[pos].HasHazard = true
		placed++
	}
	g.mu.Unlock()

	if favorWin && board.HazardCount() == models.BoardCells {
		// Unreachable while riskLevel <= 24; kept as the floor guarantee the
		// win draw is contracted to provide.
		return nil, fmt.Errorf("%w: no safe cell on generated board", ErrInvalidRisk)
	}

	return board, nil
}
