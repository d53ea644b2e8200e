package services_test

import (
	"context"
	"errors"
	"testing"

	"mines-rewards-backend/internal/services"
)

type fakeAuthorizer struct {
	operators map[int64]bool
	fail      bool
}

func (a *fakeAuthorizer) IsAuthorized(ctx context.Context, actorID int64) (bool, error) {
	if a.fail {
		return false, errors.New("auth service unreachable")
	}
	return a.operators[actorID], nil
}

func newAdminFixture() (*services.AdminController, *fakeOverrideStore, *fakeAuthorizer) {
	auth := &fakeAuthorizer{operators: map[int64]bool{100: true}}
	store := newFakeOverrideStore()
	return services.NewAdminController(auth, store), store, auth
}

func TestSetOverride(t *testing.T) {
	admin, store, _ := newAdminFixture()
	ctx := context.Background()

	if err := admin.SetOverride(ctx, 100, 42, 0.8); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	if store.overrides[42] != 0.8 {
		t.Errorf("stored override = %v, want 0.8", store.overrides[42])
	}

	// One record per player, last write wins.
	if err := admin.SetOverride(ctx, 100, 42, 0.1); err != nil {
		t.Fatalf("SetOverride upsert failed: %v", err)
	}
	if store.overrides[42] != 0.1 {
		t.Errorf("stored override = %v, want 0.1", store.overrides[42])
	}
}

func TestSetOverrideUnauthorized(t *testing.T) {
	admin, store, _ := newAdminFixture()
	ctx := context.Background()

	if err := admin.SetOverride(ctx, 999, 42, 0.8); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("SetOverride by non-operator = %v, want ErrUnauthorized", err)
	}
	if len(store.overrides) != 0 {
		t.Error("override store altered by unauthorized actor")
	}
}

func TestSetOverrideInvalidProbability(t *testing.T) {
	admin, store, _ := newAdminFixture()
	ctx := context.Background()

	for _, p := range []float64{-0.1, 1.1, 2.0} {
		if err := admin.SetOverride(ctx, 100, 42, p); !errors.Is(err, services.ErrInvalidProbability) {
			t.Errorf("SetOverride(%v) = %v, want ErrInvalidProbability", p, err)
		}
	}
	if len(store.overrides) != 0 {
		t.Error("override store altered by invalid probability")
	}
}

func TestListOverrides(t *testing.T) {
	admin, store, _ := newAdminFixture()
	ctx := context.Background()

	store.overrides[1] = 0.2
	store.overrides[2] = 0.9

	overrides, err := admin.ListOverrides(ctx, 100)
	if err != nil {
		t.Fatalf("ListOverrides failed: %v", err)
	}
	if len(overrides) != 2 {
		t.Errorf("got %d overrides, want 2", len(overrides))
	}

	if _, err := admin.ListOverrides(ctx, 999); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("ListOverrides by non-operator = %v, want ErrUnauthorized", err)
	}
}

func TestRemoveOverride(t *testing.T) {
	admin, store, _ := newAdminFixture()
	ctx := context.Background()

	store.overrides[42] = 0.8

	if err := admin.RemoveOverride(ctx, 999, 42); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("RemoveOverride by non-operator = %v, want ErrUnauthorized", err)
	}
	if err := admin.RemoveOverride(ctx, 100, 42); err != nil {
		t.Fatalf("RemoveOverride failed: %v", err)
	}
	if _, ok := store.overrides[42]; ok {
		t.Error("override still present after removal")
	}
}

func TestAdminAuthFailurePropagates(t *testing.T) {
	admin, _, auth := newAdminFixture()
	auth.fail = true
	ctx := context.Background()

	if err := admin.SetOverride(ctx, 100, 42, 0.5); !errors.Is(err, services.ErrExternalService) {
		t.Errorf("SetOverride with auth down = %v, want ErrExternalService", err)
	}
}
