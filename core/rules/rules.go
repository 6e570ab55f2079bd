// Package rules loads the location feature table and the heuristic price
// tiers from an HCL file. Block order in the file is rule priority.
//
//	feature_rule "core_districts" {
//	  keywords        = ["大安區", "信義區"]
//	  location_factor = 1.5
//	  near_mrt        = true
//	}
//
//	price_tier "premium" {
//	  keywords      = ["大安區", "信義區"]
//	  rate_per_ping = 150
//	}
//
//	default_rate = 80
//
// A table that is absent from the file keeps its built-in value.
package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"realestate-price/core/heuristic"
	"realestate-price/core/location"
	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
)

// Set holds both rule tables
type Set struct {
	Features    []location.Rule
	Tiers       []heuristic.Tier
	DefaultRate decimal.Decimal
	Source      string
}

// Defaults returns the built-in tables
func Defaults() *Set {
	return &Set{
		Features:    location.DefaultRules(),
		Tiers:       heuristic.DefaultTiers(),
		DefaultRate: heuristic.DefaultRate,
		Source:      "builtin",
	}
}

// Profiler builds a LocationProfiler over the feature table
func (s *Set) Profiler() *location.Profiler {
	return location.NewProfiler(s.Features)
}

// Estimator builds a HeuristicEstimator over the price tiers
func (s *Set) Estimator() *heuristic.Estimator {
	return heuristic.New(s.Tiers, s.DefaultRate)
}

type fileSchema struct {
	FeatureRules []featureRuleBlock `hcl:"feature_rule,block"`
	PriceTiers   []priceTierBlock   `hcl:"price_tier,block"`
	DefaultRate  hcl.Expression     `hcl:"default_rate,optional"`
}

type featureRuleBlock struct {
	Name           string   `hcl:"name,label"`
	Keywords       []string `hcl:"keywords"`
	LocationFactor float64  `hcl:"location_factor"`
	NearMRT        bool     `hcl:"near_mrt,optional"`
}

type priceTierBlock struct {
	Name     string         `hcl:"name,label"`
	Keywords []string       `hcl:"keywords"`
	Rate     hcl.Expression `hcl:"rate_per_ping"`
}

// Load reads the rule file at path. An empty path yields Defaults.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, perrors.Rules("failed to parse rule file", diags).WithContext("path", path)
	}
	return decode(file, path)
}

// Parse reads rules from src; filename is used in diagnostics only
func Parse(src []byte, filename string) (*Set, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, perrors.Rules("failed to parse rule file", diags).WithContext("path", filename)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Set, error) {
	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, perrors.Rules("failed to decode rule file", diags).WithContext("path", filename)
	}

	set := Defaults()
	set.Source = filename

	if len(schema.FeatureRules) > 0 {
		features, err := buildFeatures(schema.FeatureRules)
		if err != nil {
			return nil, perrors.Rules("invalid feature_rule", err).WithContext("path", filename)
		}
		set.Features = features
	}

	if len(schema.PriceTiers) > 0 {
		tiers, err := buildTiers(schema.PriceTiers)
		if err != nil {
			return nil, perrors.Rules("invalid price_tier", err).WithContext("path", filename)
		}
		set.Tiers = tiers
	}

	if schema.DefaultRate != nil {
		rate, isSet, err := evalRate(schema.DefaultRate)
		if err != nil {
			return nil, perrors.Rules("invalid default_rate", err).WithContext("path", filename)
		}
		if isSet {
			set.DefaultRate = rate
		}
	}

	return set, nil
}

func buildFeatures(blocks []featureRuleBlock) ([]location.Rule, error) {
	seen := make(map[string]bool, len(blocks))
	out := make([]location.Rule, 0, len(blocks))
	for _, b := range blocks {
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate rule %q", b.Name)
		}
		seen[b.Name] = true

		if err := checkKeywords(b.Name, b.Keywords); err != nil {
			return nil, err
		}
		if math.IsNaN(b.LocationFactor) || math.IsInf(b.LocationFactor, 0) || b.LocationFactor <= 0 {
			return nil, fmt.Errorf("rule %q: location_factor must be positive, got %v", b.Name, b.LocationFactor)
		}
		out = append(out, location.Rule{
			Name:     b.Name,
			Keywords: b.Keywords,
			Profile:  types.LocationProfile{LocationFactor: b.LocationFactor, IsNearMRT: b.NearMRT},
		})
	}
	return out, nil
}

func buildTiers(blocks []priceTierBlock) ([]heuristic.Tier, error) {
	seen := make(map[string]bool, len(blocks))
	out := make([]heuristic.Tier, 0, len(blocks))
	for _, b := range blocks {
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate tier %q", b.Name)
		}
		seen[b.Name] = true

		if err := checkKeywords(b.Name, b.Keywords); err != nil {
			return nil, err
		}
		rate, isSet, err := evalRate(b.Rate)
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", b.Name, err)
		}
		if !isSet {
			return nil, fmt.Errorf("tier %q: rate_per_ping is required", b.Name)
		}
		out = append(out, heuristic.Tier{Name: b.Name, Keywords: b.Keywords, Rate: rate})
	}
	return out, nil
}

func checkKeywords(name string, keywords []string) error {
	if len(keywords) == 0 {
		return fmt.Errorf("%q: at least one keyword is required", name)
	}
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%q: keywords must not be blank", name)
		}
	}
	return nil
}

// evalRate evaluates a rate expression as an exact decimal.
// The literal is read from the big.Float HCL parsed, never from a float64.
func evalRate(expr hcl.Expression) (decimal.Decimal, bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, false, diags
	}
	if val.IsNull() {
		return decimal.Zero, false, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("rate must be a number: %w", err)
	}
	if !num.IsKnown() {
		return decimal.Zero, false, fmt.Errorf("rate must be known")
	}
	bf := num.AsBigFloat()
	if bf.IsInf() {
		return decimal.Zero, false, fmt.Errorf("rate must be finite")
	}
	rate, err := decimal.NewFromString(bf.Text('f', -1))
	if err != nil {
		return decimal.Zero, false, err
	}
	if rate.IsNegative() {
		return decimal.Zero, false, fmt.Errorf("rate must not be negative, got %s", rate)
	}
	return rate, true, nil
}
