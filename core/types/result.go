package types

import "github.com/shopspring/decimal"

// PredictionResult is the outcome of one estimate
type PredictionResult struct {
	// PredictedPrice is non-negative and rounded to PriceDecimals
	PredictedPrice decimal.Decimal `json:"predicted_price"`

	// Source records which strategy produced the price
	Source Source `json:"source"`

	// Features is the vector the model was (or would have been) given
	Features FeatureVector `json:"features"`

	// FallbackReason is set when Source is SourceHeuristic
	FallbackReason string `json:"fallback_reason,omitempty"`
}

