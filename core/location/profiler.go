// Package location derives model location features from free-text addresses.
// Rules are evaluated in order and the first match wins; an address that
// satisfies several keyword sets always gets the earliest rule's profile.
package location

import (
	"strings"

	"realestate-price/core/types"
)

// Rule maps a keyword set to a location profile
type Rule struct {
	// Name identifies the rule in logs and rule files
	Name string `json:"name"`

	// Keywords match when any of them is a substring of the address
	Keywords []string `json:"keywords"`

	// Profile is applied when the rule matches
	Profile types.LocationProfile `json:"profile"`
}

// Matches reports whether any keyword occurs in address
func (r Rule) Matches(address string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(address, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is the built-in feature table
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "core_districts",
			Keywords: []string{"大安區", "信義區"},
			Profile:  types.LocationProfile{LocationFactor: 1.5, IsNearMRT: true},
		},
		{
			Name:     "zhongshan",
			Keywords: []string{"中山區"},
			Profile:  types.LocationProfile{LocationFactor: 1.2, IsNearMRT: false},
		},
	}
}

// Profiler applies an ordered rule table. It is immutable after construction.
type Profiler struct {
	rules    []Rule
	fallback types.LocationProfile
}

// NewProfiler creates a profiler over a copy of rules
func NewProfiler(rules []Rule) *Profiler {
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		copied[i] = Rule{
			Name:     r.Name,
			Keywords: append([]string(nil), r.Keywords...),
			Profile:  r.Profile,
		}
	}
	return &Profiler{
		rules:    copied,
		fallback: types.DefaultLocationProfile(),
	}
}

// NewDefaultProfiler creates a profiler over DefaultRules
func NewDefaultProfiler() *Profiler {
	return NewProfiler(DefaultRules())
}

// Derive returns the profile of the first matching rule, or the default profile
func (p *Profiler) Derive(address string) types.LocationProfile {
	profile, _ := p.Match(address)
	return profile
}

// Match is Derive that also returns the matched rule name ("" for no match)
func (p *Profiler) Match(address string) (types.LocationProfile, string) {
	for _, r := range p.rules {
		if r.Matches(address) {
			return r.Profile, r.Name
		}
	}
	return p.fallback, ""
}

// Rules returns a copy of the rule table
func (p *Profiler) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	for i, r := range p.rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}
