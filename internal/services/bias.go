package services

import (
	"context"
	"log"

	"mines-rewards-backend/internal/models"
)

// OverrideStore is the operator-maintained win-probability table. The Redis
// service implements it; tests use an in-memory fake.
type OverrideStore interface {
	GetOverride(ctx context.Context, playerID int64) (float64, bool, error)
	SetOverride(ctx context.Context, playerID int64, winProbability float64) error
	DeleteOverride(ctx context.Context, playerID int64) error
	ListOverrides(ctx context.Context) ([]models.BiasOverride, error)
}

// BiasResolver maps a player to an effective win probability. A missing
// record or a store failure falls back to the neutral default rather than
// blocking gameplay.
type BiasResolver struct {
	store OverrideStore
}

func NewBiasResolver(store OverrideStore) *BiasResolver {
	return &BiasResolver{store: store}
}

func (r *BiasResolver) Resolve(ctx context.Context, playerID int64) float64 {
	p, ok, err := r.store.GetOverride(ctx, playerID)
	if err != nil {
		log.Printf("bias lookup failed for player %d, using default: %v", playerID, err)
		return models.DefaultWinProbability
	}
	if !ok {
		return models.DefaultWinProbability
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}
