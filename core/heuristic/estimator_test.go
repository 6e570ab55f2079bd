package heuristic

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// TestEstimateDefaultTiers checks each built-in tier and the default rate
func TestEstimateDefaultTiers(t *testing.T) {
	e := NewDefault()

	tests := []struct {
		name     string
		area     float64
		address  string
		tier     string
		expected string
	}{
		{"daan premium", 50, "大安區", "premium", "7500"},
		{"xinyi premium", 20, "台北市信義區", "premium", "3000"},
		{"zhongshan upper", 10, "中山區", "upper", "1200"},
		{"songshan upper", 10, "松山區", "upper", "1200"},
		{"wenshan lower", 30, "文山區", "lower", "2100"},
		{"beitou lower", 30, "北投區", "lower", "2100"},
		{"unknown default", 40, "unknown place", DefaultTierName, "3200"},
		{"empty address default", 1, "", DefaultTierName, "80"},
		{"fractional area", 12.5, "大安區", "premium", "1875"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := e.Lookup(tt.address)
			if tier.Name != tt.tier {
				t.Errorf("expected tier %s, got %s", tt.tier, tier.Name)
			}
			got := e.Estimate(tt.area, tier)
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
			if !e.EstimateAddress(tt.area, tt.address).Equal(got) {
				t.Error("EstimateAddress disagrees with Lookup+Estimate")
			}
		})
	}
}

// TestTierOrderIsPriority proves the first matching tier is applied
func TestTierOrderIsPriority(t *testing.T) {
	e := NewDefault()
	if tier := e.Lookup("文山區 next to 大安區"); tier.Name != "premium" {
		t.Errorf("Expected premium to win, got %s", tier.Name)
	}
	if tier := e.Lookup("北投區/松山區"); tier.Name != "upper" {
		t.Errorf("Expected upper to win over lower, got %s", tier.Name)
	}
}

// TestEstimateNeverFails checks degenerate inputs produce zero, not panics
func TestEstimateNeverFails(t *testing.T) {
	e := NewDefault()
	for _, area := range []float64{0, -3, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := e.EstimateAddress(area, "大安區"); !got.IsZero() {
			t.Errorf("area %v: expected zero, got %s", area, got)
		}
	}
}

// TestCustomDefaultRate checks the fallback tier uses the configured rate
func TestCustomDefaultRate(t *testing.T) {
	e := New(nil, decimal.NewFromInt(55))
	if got := e.EstimateAddress(2, "大安區"); !got.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Expected 110 with empty table, got %s", got)
	}
	if e.Default().Name != DefaultTierName {
		t.Errorf("Unexpected default tier name %s", e.Default().Name)
	}
}

// TestTiersAndDefault verifies the accessors expose the table without sharing it
func TestTiersAndDefault(t *testing.T) {
	e := NewDefault()

	tiers := e.Tiers()
	if len(tiers) != 3 || tiers[0].Name != "premium" || tiers[2].Name != "lower" {
		t.Fatalf("Unexpected tiers: %+v", tiers)
	}
	if d := e.Default(); d.Name != DefaultTierName || !d.Rate.Equal(DefaultRate) {
		t.Errorf("Unexpected default tier: %+v", d)
	}

	tiers[0].Keywords[0] = "mutated"
	tiers[0].Rate = decimal.NewFromInt(1)
	if got := e.Lookup("大安區"); got.Name != "premium" || !got.Rate.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Estimator observed mutation through Tiers: %+v", got)
	}
}
