package services

import (
	"context"
	"fmt"

	"mines-rewards-backend/internal/models"
)

// Authorizer answers whether an actor may use operator controls. The check
// itself lives outside the core; only the yes/no capability is consumed.
type Authorizer interface {
	IsAuthorized(ctx context.Context, actorID int64) (bool, error)
}

// AdminController exposes the operator-facing bias override operations.
// Authorization failures never reveal whether the target player exists.
type AdminController struct {
	auth  Authorizer
	store OverrideStore
}

func NewAdminController(auth Authorizer, store OverrideStore) *AdminController {
	return &AdminController{auth: auth, store: store}
}

func (a *AdminController) authorize(ctx context.Context, actorID int64) error {
	ok, err := a.auth.IsAuthorized(ctx, actorID)
	if err != nil {
		return fmt.Errorf("%w: authorization check: %v", ErrExternalService, err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// SetOverride upserts the per-player win probability; one record per player,
// last write wins.
func (a *AdminController) SetOverride(ctx context.Context, actorID, playerID int64, winProbability float64) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if winProbability < 0 || winProbability > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidProbability, winProbability)
	}
	if err := a.store.SetOverride(ctx, playerID, winProbability); err != nil {
		return fmt.Errorf("%w: save override: %v", ErrExternalService, err)
	}
	return nil
}

func (a *AdminController) RemoveOverride(ctx context.Context, actorID, playerID int64) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if err := a.store.DeleteOverride(ctx, playerID); err != nil {
		return fmt.Errorf("%w: delete override: %v", ErrExternalService, err)
	}
	return nil
}

func (a *AdminController) ListOverrides(ctx context.Context, actorID int64) ([]models.BiasOverride, error) {
	if err := a.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	overrides, err := a.store.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list overrides: %v", ErrExternalService, err)
	}
	return overrides, nil
}
