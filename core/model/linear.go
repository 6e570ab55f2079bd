package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// linearDocument is the on-disk form of a LinearModel
type linearDocument struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LinearModel predicts intercept + coefficients . features
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
	features     []string
}

// NewLinearModel creates a linear model from explicit weights
func NewLinearModel(intercept float64, coefficients []float64) *LinearModel {
	return &LinearModel{
		Intercept:    intercept,
		Coefficients: append([]float64(nil), coefficients...),
	}
}

func parseLinear(data []byte) (*LinearModel, error) {
	var doc linearDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode linear model: %w", err)
	}
	if len(doc.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	for i, c := range append([]float64{doc.Intercept}, doc.Coefficients...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("weight %d is not finite", i)
		}
	}
	m := NewLinearModel(doc.Intercept, doc.Coefficients)
	m.features = doc.FeatureNames
	return m, nil
}

// Predict implements Regressor
func (m *LinearModel) Predict(features []float64) ([]float64, error) {
	if len(features) != len(m.Coefficients) {
		return nil, fmt.Errorf("feature shape mismatch: expected %d, got %d", len(m.Coefficients), len(features))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return []float64{y}, nil
}
