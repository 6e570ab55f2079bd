// Package predictor invokes a loaded model on a feature vector and validates
// what comes back. Every failure is reported as a ModelInferenceError; no
// value is ever substituted.
package predictor

import (
	"fmt"
	"math"

	"realestate-price/core/model"
	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
)

// Predict runs the model in h on fv.
// h must be Present; an Absent handle is reported as an inference error.
func Predict(h *model.Handle, fv types.FeatureVector) (price float64, err error) {
	m, ok := h.Model()
	if !ok {
		return 0, perrors.ModelInference("no model loaded", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			price = 0
			err = inferenceError("model panicked", fmt.Errorf("%v", r), fv)
		}
	}()

	out, err := m.Predict(fv.Values())
	if err != nil {
		return 0, inferenceError("model returned an error", err, fv)
	}
	if len(out) != 1 {
		return 0, inferenceError(fmt.Sprintf("expected 1 output, got %d", len(out)), nil, fv)
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, inferenceError(fmt.Sprintf("non-finite output %v", out[0]), nil, fv)
	}
	return out[0], nil
}

func inferenceError(msg string, cause error, fv types.FeatureVector) error {
	return perrors.ModelInference(msg, cause).WithContext("features", fv.Values())
}
