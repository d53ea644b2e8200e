package services

import (
	"fmt"

	"mines-rewards-backend/internal/models"
)

// PayoutEntry holds the starting multiplier and the per-safe-reveal growth
// factor for one risk level.
type PayoutEntry struct {
	Base   float64
	Growth float64
}

// Paytable is the fixed risk-level paytable: one entry per hazard count from
// 1 to 24. It is configured, not derived; higher risk pays more but no
// expected-value neutrality is enforced.
type Paytable struct {
	entries [models.MaxRiskLevel]PayoutEntry
}

var defaultPayoutEntries = [models.MaxRiskLevel]PayoutEntry{
	{1.01, 1.03}, // 1 hazard
	{1.05, 1.07},
	{1.10, 1.12},
	{1.25, 1.18},
	{1.50, 1.25},
	{1.70, 1.32},
	{1.90, 1.40},
	{2.10, 1.48},
	{2.35, 1.56},
	{2.60, 1.65},
	{2.90, 1.75},
	{3.25, 1.85},
	{3.60, 1.96},
	{4.00, 2.08},
	{4.45, 2.20},
	{4.95, 2.34},
	{5.50, 2.50},
	{6.00, 2.70},
	{6.50, 2.95},
	{7.00, 3.25},
	{7.50, 3.60},
	{8.00, 4.05},
	{8.50, 4.60},
	{9.00, 5.25}, // 24 hazards, one safe cell
}

// NewPaytable builds the default paytable and validates it: every risk level
// must be present, with base and growth at least 1 and strictly increasing
// as the hazard count rises.
func NewPaytable() (*Paytable, error) {
	pt := &Paytable{entries: defaultPayoutEntries}

	prev := PayoutEntry{}
	for i, e := range pt.entries {
		risk := i + 1
		if e.Base < 1.0 || e.Growth < 1.0 {
			return nil, fmt.Errorf("paytable entry for risk %d below 1.0", risk)
		}
		if i > 0 && (e.Base <= prev.Base || e.Growth <= prev.Growth) {
			return nil, fmt.Errorf("paytable not increasing at risk %d", risk)
		}
		prev = e
	}

	return pt, nil
}

func (pt *Paytable) BaseMultiplier(risk int) (float64, error) {
	if !models.ValidRiskLevel(risk) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRisk, risk)
	}
	return pt.entries[risk-1].Base, nil
}

func (pt *Paytable) GrowthFactor(risk int) (float64, error) {
	if !models.ValidRiskLevel(risk) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRisk, risk)
	}
	return pt.entries[risk-1].Growth, nil
}
