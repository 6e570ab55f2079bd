package rules

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	perrors "realestate-price/internal/errors"
)

// TestLoadFileKeepsBlockOrder verifies file order becomes rule priority
func TestLoadFileKeepsBlockOrder(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "taipei.hcl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Features) != 3 {
		t.Fatalf("Expected 3 feature rules, got %d", len(set.Features))
	}
	names := []string{set.Features[0].Name, set.Features[1].Name, set.Features[2].Name}
	if names[0] != "core_districts" || names[1] != "zhongshan" || names[2] != "neihu" {
		t.Errorf("Unexpected rule order: %v", names)
	}
	if !set.Features[2].Profile.IsNearMRT || set.Features[2].Profile.LocationFactor != 1.1 {
		t.Errorf("Unexpected neihu profile: %+v", set.Features[2].Profile)
	}
	if set.Features[1].Profile.IsNearMRT {
		t.Error("near_mrt should default to false")
	}

	if len(set.Tiers) != 3 {
		t.Fatalf("Expected 3 tiers, got %d", len(set.Tiers))
	}
	if !set.Tiers[2].Rate.Equal(decimal.RequireFromString("70.5")) {
		t.Errorf("Expected exact rate 70.5, got %s", set.Tiers[2].Rate)
	}
	if !set.DefaultRate.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected default rate 80, got %s", set.DefaultRate)
	}

	// The tables stay independent: 內湖區 has a feature rule but no tier
	if got := set.Profiler().Derive("內湖區").LocationFactor; got != 1.1 {
		t.Errorf("Expected factor 1.1, got %v", got)
	}
	if got := set.Estimator().Lookup("內湖區").Name; got != "default" {
		t.Errorf("Expected default tier, got %s", got)
	}
}

// TestParsePartialFileKeepsBuiltins verifies omitted tables are not cleared
func TestParsePartialFileKeepsBuiltins(t *testing.T) {
	set, err := Parse([]byte(`
price_tier "flat" {
  keywords      = ["台北"]
  rate_per_ping = 0.1
}
`), "partial.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Features) != len(Defaults().Features) {
		t.Errorf("Expected built-in feature rules, got %d", len(set.Features))
	}
	if !set.DefaultRate.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected built-in default rate, got %s", set.DefaultRate)
	}
	if len(set.Tiers) != 1 || !set.Tiers[0].Rate.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("Unexpected tiers: %+v", set.Tiers)
	}
	if set.Source != "partial.hcl" {
		t.Errorf("Expected source partial.hcl, got %s", set.Source)
	}
}

// TestLoadEmptyPathReturnsDefaults verifies no file means built-in tables
func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Source != "builtin" {
		t.Errorf("Expected builtin source, got %s", set.Source)
	}
	if got := set.Estimator().EstimateAddress(50, "大安區"); !got.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("Expected 7500, got %s", got)
	}
}

// TestParseRejectsInvalidRules lists rule files that must fail
func TestParseRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `feature_rule "x" {`},
		{"missing keywords", `feature_rule "x" { location_factor = 1 }`},
		{"blank keyword", `feature_rule "x" {
  keywords        = [" "]
  location_factor = 1
}`},
		{"zero factor", `feature_rule "x" {
  keywords        = ["a"]
  location_factor = 0
}`},
		{"duplicate rule", `feature_rule "x" {
  keywords        = ["a"]
  location_factor = 1
}
feature_rule "x" {
  keywords        = ["b"]
  location_factor = 1
}`},
		{"negative rate", `price_tier "x" {
  keywords      = ["a"]
  rate_per_ping = -1
}`},
		{"string rate", `price_tier "x" {
  keywords      = ["a"]
  rate_per_ping = "cheap"
}`},
		{"null rate", `price_tier "x" {
  keywords      = ["a"]
  rate_per_ping = null
}`},
		{"unknown attribute", `price_cap = 10`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.name+".hcl")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !perrors.IsType(err, perrors.TypeRules) {
				t.Errorf("Expected TypeRules, got %v", err)
			}
		})
	}
}

// TestLoadMissingFileFails verifies a configured but missing file is an error
func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	if !perrors.IsType(err, perrors.TypeRules) {
		t.Errorf("Expected TypeRules, got %v", err)
	}
}

// TestShippedRulesMatchDefaults keeps configs/rules.hcl in sync with the built-in tables
func TestShippedRulesMatchDefaults(t *testing.T) {
	shipped, err := Load(filepath.Join("..", "..", "configs", "rules.hcl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builtin := Defaults()

	if len(shipped.Features) != len(builtin.Features) {
		t.Fatalf("Expected %d feature rules, got %d", len(builtin.Features), len(shipped.Features))
	}
	for i, want := range builtin.Features {
		got := shipped.Features[i]
		if got.Name != want.Name || got.Profile != want.Profile || len(got.Keywords) != len(want.Keywords) {
			t.Errorf("Feature rule %d: expected %+v, got %+v", i, want, got)
		}
	}

	if len(shipped.Tiers) != len(builtin.Tiers) {
		t.Fatalf("Expected %d tiers, got %d", len(builtin.Tiers), len(shipped.Tiers))
	}
	for i, want := range builtin.Tiers {
		got := shipped.Tiers[i]
		if got.Name != want.Name || !got.Rate.Equal(want.Rate) {
			t.Errorf("Tier %d: expected %s=%s, got %s=%s", i, want.Name, want.Rate, got.Name, got.Rate)
		}
	}
	if !shipped.DefaultRate.Equal(builtin.DefaultRate) {
		t.Errorf("Expected default rate %s, got %s", builtin.DefaultRate, shipped.DefaultRate)
	}
}
