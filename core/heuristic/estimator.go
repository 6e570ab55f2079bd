// Package heuristic - Rule-based price estimator of last resort
// A price is area x a per-ping rate looked up from an ordered tier table.
// The tier table is independent of the model feature table in core/location.
package heuristic

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTierName names the tier used when no keyword matches
const DefaultTierName = "default"

// Tier is a per-ping rate applied to addresses matching any keyword
type Tier struct {
	Name     string          `json:"name"`
	Keywords []string        `json:"keywords"`
	Rate     decimal.Decimal `json:"rate_per_ping"`
}

// Matches reports whether any keyword occurs in address
func (t Tier) Matches(address string) bool {
	for _, kw := range t.Keywords {
		if kw != "" && strings.Contains(address, kw) {
			return true
		}
	}
	return false
}

// DefaultRate is the rate for addresses matching no tier
var DefaultRate = decimal.NewFromInt(80)

// DefaultTiers is the built-in pricing table, highest priority first
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "premium", Keywords: []string{"大安區", "信義區"}, Rate: decimal.NewFromInt(150)},
		{Name: "upper", Keywords: []string{"中山區", "松山區"}, Rate: decimal.NewFromInt(120)},
		{Name: "lower", Keywords: []string{"文山區", "北投區"}, Rate: decimal.NewFromInt(70)},
	}
}

// Estimator holds an immutable tier table
type Estimator struct {
	tiers    []Tier
	fallback Tier
}

// New creates an estimator over a copy of tiers with the given default rate
func New(tiers []Tier, defaultRate decimal.Decimal) *Estimator {
	copied := make([]Tier, len(tiers))
	for i, t := range tiers {
		copied[i] = Tier{
			Name:     t.Name,
			Keywords: append([]string(nil), t.Keywords...),
			Rate:     t.Rate,
		}
	}
	return &Estimator{
		tiers:    copied,
		fallback: Tier{Name: DefaultTierName, Rate: defaultRate},
	}
}

// NewDefault creates an estimator over DefaultTiers and DefaultRate
func NewDefault() *Estimator {
	return New(DefaultTiers(), DefaultRate)
}

// Lookup returns the first tier matching address, or the default tier
func (e *Estimator) Lookup(address string) Tier {
	for _, t := range e.tiers {
		if t.Matches(address) {
			return t
		}
	}
	return e.fallback
}

// Estimate computes area x tier rate.
// Non-finite or non-positive areas yield zero instead of failing.
func (e *Estimator) Estimate(area float64, tier Tier) decimal.Decimal {
	if math.IsNaN(area) || math.IsInf(area, 0) || area <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(area).Mul(tier.Rate)
}

// EstimateAddress is Lookup followed by Estimate
func (e *Estimator) EstimateAddress(area float64, address string) decimal.Decimal {
	return e.Estimate(area, e.Lookup(address))
}

// Tiers returns a copy of the tier table
func (e *Estimator) Tiers() []Tier {
	out := make([]Tier, len(e.tiers))
	for i, t := range e.tiers {
		t.Keywords = append([]string(nil), t.Keywords...)
		out[i] = t
	}
	return out
}

// Default returns the fallback tier
func (e *Estimator) Default() Tier {
	return e.fallback
}
