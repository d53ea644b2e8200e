package services_test

import (
	"errors"
	"math"
	"testing"

	"mines-rewards-backend/internal/services"
)

// Golden paytable. Any change to the configured entries must be deliberate
// and show up here.
var goldenPaytable = [24][2]float64{
	{1.01, 1.03},
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
	{9.00, 5.25},
}

func TestPaytableGoldenValues(t *testing.T) {
	pt, err := services.NewPaytable()
	if err != nil {
		t.Fatalf("Failed to build paytable: %v", err)
	}

	for i, want := range goldenPaytable {
		risk := i + 1

		base, err := pt.BaseMultiplier(risk)
		if err != nil {
			t.Fatalf("BaseMultiplier(%d) failed: %v", risk, err)
		}
		if base != want[0] {
			t.Errorf("BaseMultiplier(%d) = %v, want %v", risk, base, want[0])
		}

		growth, err := pt.GrowthFactor(risk)
		if err != nil {
			t.Fatalf("GrowthFactor(%d) failed: %v", risk, err)
		}
		if growth != want[1] {
			t.Errorf("GrowthFactor(%d) = %v, want %v", risk, growth, want[1])
		}
	}
}

func TestPaytableInvalidRisk(t *testing.T) {
	pt, err := services.NewPaytable()
	if err != nil {
		t.Fatalf("Failed to build paytable: %v", err)
	}

	for _, risk := range []int{0, -1, 25, 100} {
		if _, err := pt.BaseMultiplier(risk); !errors.Is(err, services.ErrInvalidRisk) {
			t.Errorf("BaseMultiplier(%d) = %v, want ErrInvalidRisk", risk, err)
		}
		if _, err := pt.GrowthFactor(risk); !errors.Is(err, services.ErrInvalidRisk) {
			t.Errorf("GrowthFactor(%d) = %v, want ErrInvalidRisk", risk, err)
		}
	}
}

func TestPaytableIncreasesWithRisk(t *testing.T) {
	pt, err := services.NewPaytable()
	if err != nil {
		t.Fatalf("Failed to build paytable: %v", err)
	}

	prevBase, prevGrowth := 0.0, 0.0
	for risk := 1; risk <= 24; risk++ {
		base, _ := pt.BaseMultiplier(risk)
		growth, _ := pt.GrowthFactor(risk)

		if base <= prevBase {
			t.Errorf("base multiplier not increasing at risk %d", risk)
		}
		if growth <= prevGrowth {
			t.Errorf("growth factor not increasing at risk %d", risk)
		}
		prevBase, prevGrowth = base, growth
	}
}

func TestMultiplierProgression(t *testing.T) {
	pt, err := services.NewPaytable()
	if err != nil {
		t.Fatalf("Failed to build paytable: %v", err)
	}

	// base(5) * growth(5)^3 = 1.50 * 1.25^3 = 2.9296875
	base, _ := pt.BaseMultiplier(5)
	growth, _ := pt.GrowthFactor(5)

	multiplier := base
	for i := 0; i < 3; i++ {
		multiplier *= growth
	}

	if multiplier != 2.9296875 {
		t.Errorf("multiplier after 3 safe reveals at risk 5 = %v, want 2.9296875", multiplier)
	}

	if payout := int64(math.Floor(10 * multiplier)); payout != 29 {
		t.Errorf("payout for wager 10 = %d, want 29", payout)
	}
}
