// Package types - Domain types shared by the price estimation pipeline
package types

// MonetaryUnit is the unit every predicted price is expressed in.
// It is the unit of the training data and must stay constant.
const MonetaryUnit = "萬TWD"

// AreaUnit is the unit of PredictionRequest.Area
const AreaUnit = "坪"

// PriceDecimals is the number of decimal places a predicted price is rounded to
const PriceDecimals = 2

// Source identifies which strategy produced a price
type Source string

const (
	// SourceModel means the trained regression model produced the price
	SourceModel Source = "MODEL"

	// SourceHeuristic means the rule-based fallback produced the price
	SourceHeuristic Source = "HEURISTIC"
)

// String returns the string representation
func (s Source) String() string {
	return string(s)
}
