// Package model - Trained regression artifact lifecycle
// A Handle is built once at startup and never mutated, so concurrent readers
// need no locking.
package model

import (
	"time"
)

// Regressor is a loaded regression model.
// Predict receives features in types.FeatureColumns order and returns the raw
// model outputs; callers validate the output shape.
type Regressor interface {
	Predict(features []float64) ([]float64, error)
}

// Artifact kinds
const (
	KindXGBoost = "xgboost"
	KindLinear  = "linear"
)

// Info describes a loaded artifact
type Info struct {
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Objective string    `json:"objective,omitempty"`
	Features  []string  `json:"features,omitempty"`
	Trees     int       `json:"trees,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Handle is either Present (wraps a model) or Absent
type Handle struct {
	model Regressor
	info  Info
}

// Absent returns a handle with no model
func Absent() *Handle {
	return &Handle{}
}

// Present wraps a loaded model. A nil model yields an Absent handle.
func Present(m Regressor, info Info) *Handle {
	if m == nil {
		return Absent()
	}
	info.Features = append([]string(nil), info.Features...)
	return &Handle{model: m, info: info}
}

// IsPresent reports whether a model is available. Safe on a nil handle.
func (h *Handle) IsPresent() bool {
	return h != nil && h.model != nil
}

// Model returns the wrapped model and whether it is present
func (h *Handle) Model() (Regressor, bool) {
	if !h.IsPresent() {
		return nil, false
	}
	return h.model, true
}

// Info returns artifact metadata; zero for an Absent handle
func (h *Handle) Info() Info {
	if !h.IsPresent() {
		return Info{}
	}
	info := h.info
	info.Features = append([]string(nil), h.info.Features...)
	return info
}

// State returns "present" or "absent"
func (h *Handle) State() string {
	if h.IsPresent() {
		return "present"
	}
	return "absent"
}
