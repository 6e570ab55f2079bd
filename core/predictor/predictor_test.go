package predictor

import (
	"errors"
	"math"
	"testing"

	"realestate-price/core/model"
	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
)

// stubModel returns fixed outputs, an error, or panics
type stubModel struct {
	out   []float64
	err   error
	panic bool
	got   []float64
}

func (s *stubModel) Predict(features []float64) ([]float64, error) {
	s.got = features
	if s.panic {
		panic("index out of range")
	}
	return s.out, s.err
}

var features = types.FeatureVector{Area: 40, NumRooms: 3, NumBathrooms: 2, Age: 10, LocationFactor: 1.0}

// TestPredictSuccess verifies the value and the column order handed to the model
func TestPredictSuccess(t *testing.T) {
	stub := &stubModel{out: []float64{3210.5}}
	got, err := Predict(model.Present(stub, model.Info{}), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3210.5 {
		t.Errorf("Expected 3210.5, got %v", got)
	}

	want := []float64{40, 3, 2, 10, 1, 0}
	for i := range want {
		if stub.got[i] != want[i] {
			t.Fatalf("Expected features %v, got %v", want, stub.got)
		}
	}
}

// TestPredictFailures verifies every fault surfaces as ModelInferenceError
func TestPredictFailures(t *testing.T) {
	tests := []struct {
		name   string
		handle *model.Handle
	}{
		{"absent handle", model.Absent()},
		{"model error", model.Present(&stubModel{err: errors.New("shape mismatch")}, model.Info{})},
		{"model panic", model.Present(&stubModel{panic: true}, model.Info{})},
		{"no outputs", model.Present(&stubModel{out: nil}, model.Info{})},
		{"two outputs", model.Present(&stubModel{out: []float64{1, 2}}, model.Info{})},
		{"nan output", model.Present(&stubModel{out: []float64{math.NaN()}}, model.Info{})},
		{"inf output", model.Present(&stubModel{out: []float64{math.Inf(1)}}, model.Info{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Predict(tt.handle, features)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !perrors.IsType(err, perrors.TypeModelInference) {
				t.Errorf("Expected TypeModelInference, got %v", err)
			}
			if got != 0 {
				t.Errorf("Expected no substituted value, got %v", got)
			}
		})
	}
}

// TestPredictWithLinearModel runs a real Regressor end to end
func TestPredictWithLinearModel(t *testing.T) {
	lm := model.NewLinearModel(0, []float64{80, 10, 5, -2, 0, 50})
	got, err := Predict(model.Present(lm, model.Info{Kind: model.KindLinear}), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 40*80 + 30 + 10 - 20
	if got != 3220 {
		t.Errorf("Expected 3220, got %v", got)
	}
}
