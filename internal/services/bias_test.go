package services_test

import (
	"context"
	"errors"
	"testing"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

type fakeOverrideStore struct {
	overrides map[int64]float64
	failGet   bool
	failSet   bool
}

func newFakeOverrideStore() *fakeOverrideStore {
	return &fakeOverrideStore{overrides: make(map[int64]float64)}
}

func (f *fakeOverrideStore) GetOverride(ctx context.Context, playerID int64) (float64, bool, error) {
	if f.failGet {
		return 0, false, errors.New("store unreachable")
	}
	p, ok := f.overrides[playerID]
	return p, ok, nil
}

func (f *fakeOverrideStore) SetOverride(ctx context.Context, playerID int64, p float64) error {
	if f.failSet {
		return errors.New("store unreachable")
	}
	f.overrides[playerID] = p
	return nil
}

func (f *fakeOverrideStore) DeleteOverride(ctx context.Context, playerID int64) error {
	delete(f.overrides, playerID)
	return nil
}

func (f *fakeOverrideStore) ListOverrides(ctx context.Context) ([]models.BiasOverride, error) {
	if f.failGet {
		return nil, errors.New("store unreachable")
	}
	var out []models.BiasOverride
	for id, p := range f.overrides {
		out = append(out, models.BiasOverride{PlayerID: id, WinProbability: p})
	}
	return out, nil
}

func TestResolveDefaultWhenAbsent(t *testing.T) {
	resolver := services.NewBiasResolver(newFakeOverrideStore())

	if p := resolver.Resolve(context.Background(), 42); p != models.DefaultWinProbability {
		t.Errorf("Resolve with no override = %v, want %v", p, models.DefaultWinProbability)
	}
}

func TestResolveUsesOverride(t *testing.T) {
	store := newFakeOverrideStore()
	store.overrides[42] = 0.9

	resolver := services.NewBiasResolver(store)

	if p := resolver.Resolve(context.Background(), 42); p != 0.9 {
		t.Errorf("Resolve = %v, want 0.9", p)
	}
}

func TestResolveFallsBackOnStoreError(t *testing.T) {
	store := newFakeOverrideStore()
	store.overrides[42] = 0.9
	store.failGet = true

	resolver := services.NewBiasResolver(store)

	// Availability over consistency: a failing lookup means neutral odds,
	// never a blocked game.
	if p := resolver.Resolve(context.Background(), 42); p != models.DefaultWinProbability {
		t.Errorf("Resolve on store error = %v, want default", p)
	}
}

func TestResolveClampsOutOfRange(t *testing.T) {
	store := newFakeOverrideStore()
	resolver := services.NewBiasResolver(store)

	store.overrides[1] = 1.7
	if p := resolver.Resolve(context.Background(), 1); p != 1.0 {
		t.Errorf("Resolve above range = %v, want 1.0", p)
	}

	store.overrides[2] = -0.3
	if p := resolver.Resolve(context.Background(), 2); p != 0.0 {
		t.Errorf("Resolve below range = %v, want 0.0", p)
	}
}
