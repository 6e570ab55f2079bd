// Package valuation - Price estimation orchestration
// Each request runs Validating -> Deriving -> ModelAttempt -> (Success |
// Fallback) -> Rounding exactly once. Only invalid input is returned as an
// error; a missing or failing model degrades to the heuristic estimator.
package valuation

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"realestate-price/core/heuristic"
	"realestate-price/core/location"
	"realestate-price/core/model"
	"realestate-price/core/predictor"
	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
	"realestate-price/internal/logging"
)

// Fallback reasons recorded on heuristic results
const (
	ReasonModelAbsent     = "model_absent"
	ReasonInferenceFailed = "inference_failed"
)

// Service estimates listing prices. It is safe for concurrent use: every
// field is read-only after New returns.
type Service struct {
	handle    *model.Handle
	profiler  *location.Profiler
	estimator *heuristic.Estimator
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithProfiler replaces the built-in feature rule table
func WithProfiler(p *location.Profiler) Option {
	return func(s *Service) { s.profiler = p }
}

// WithEstimator replaces the built-in heuristic price tiers
func WithEstimator(e *heuristic.Estimator) Option {
	return func(s *Service) { s.estimator = e }
}

// WithLogger sets the logger used when the request context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a service around an already loaded model handle.
// A nil handle is treated as Absent.
func New(handle *model.Handle, opts ...Option) *Service {
	if handle == nil {
		handle = model.Absent()
	}
	s := &Service{handle: handle}
	for _, opt := range opts {
		opt(s)
	}
	if s.profiler == nil {
		s.profiler = location.NewDefaultProfiler()
	}
	if s.estimator == nil {
		s.estimator = heuristic.NewDefault()
	}
	return s
}

// Estimate prices one listing.
// The returned error is always of type perrors.TypeInvalidInput.
func (s *Service) Estimate(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResult, error) {
	logger := logging.FromContext(ctx, s.logger)

	if err := Validate(req); err != nil {
		logger.Warn("Rejected estimate request", zap.Error(err))
		return nil, err
	}

	fv := s.Features(req)

	price, source, reason := s.attemptModel(logger, fv)
	if source != types.SourceModel {
		price = s.fallback(req)
	}

	result := &types.PredictionResult{
		PredictedPrice: roundPrice(price),
		Source:         source,
		Features:       fv,
		FallbackReason: reason,
	}

	logger.Info("Estimated price",
		zap.String("source", source.String()),
		zap.String("predicted_price", result.PredictedPrice.StringFixed(types.PriceDecimals)),
		zap.Float64("area", req.Area),
		zap.String("address", req.Address))

	return result, nil
}

// Validate enforces request preconditions
func Validate(req *types.PredictionRequest) error {
	if req == nil {
		return perrors.InvalidInput("request is required")
	}
	if math.IsNaN(req.Area) || math.IsInf(req.Area, 0) || req.Area <= 0 {
		return perrors.InvalidInputf("area must be a number greater than zero, got %v", req.Area).
			WithContext("field", "area")
	}

	counts := []struct {
		field string
		value *int
	}{
		{"num_rooms", req.NumRooms},
		{"num_bathrooms", req.NumBathrooms},
		{"age", req.Age},
	}
	for _, c := range counts {
		if c.value != nil && *c.value < 0 {
			return perrors.InvalidInputf("%s must not be negative, got %d", c.field, *c.value).
				WithContext("field", c.field)
		}
	}

	if lf := req.LocationFactor; lf != nil && (math.IsNaN(*lf) || math.IsInf(*lf, 0) || *lf <= 0) {
		return perrors.InvalidInputf("location_factor must be a positive number, got %v", *lf).
			WithContext("field", "location_factor")
	}
	return nil
}

// Features builds the model input for a validated request.
// Explicit location_factor / is_near_mrt values win; omitted ones are derived
// from the address, field by field.
func (s *Service) Features(req *types.PredictionRequest) types.FeatureVector {
	profile := s.deriveProfile(req)
	return types.FeatureVector{
		Area:           req.Area,
		NumRooms:       req.Rooms(),
		NumBathrooms:   req.Bathrooms(),
		Age:            req.BuildingAge(),
		LocationFactor: profile.LocationFactor,
		IsNearMRT:      profile.IsNearMRT,
	}
}

func (s *Service) deriveProfile(req *types.PredictionRequest) types.LocationProfile {
	if req.LocationFactor != nil && req.IsNearMRT != nil {
		return types.LocationProfile{LocationFactor: *req.LocationFactor, IsNearMRT: *req.IsNearMRT}
	}
	profile := s.profiler.Derive(req.Address)
	if req.LocationFactor != nil {
		profile.LocationFactor = *req.LocationFactor
	}
	if req.IsNearMRT != nil {
		profile.IsNearMRT = *req.IsNearMRT
	}
	return profile
}

func (s *Service) attemptModel(logger *zap.Logger, fv types.FeatureVector) (decimal.Decimal, types.Source, string) {
	if !s.handle.IsPresent() {
		return decimal.Zero, types.SourceHeuristic, ReasonModelAbsent
	}

	value, err := predictor.Predict(s.handle, fv)
	if err != nil {
		logger.Warn("Model inference failed, falling back to heuristic estimate",
			zap.Float64s("features", fv.Values()),
			zap.Error(err))
		return decimal.Zero, types.SourceHeuristic, ReasonInferenceFailed
	}
	return decimal.NewFromFloat(value), types.SourceModel, ""
}

func (s *Service) fallback(req *types.PredictionRequest) decimal.Decimal {
	return s.estimator.Estimate(req.Area, s.estimator.Lookup(req.Address))
}

// roundPrice rounds to types.PriceDecimals and floors at zero
func roundPrice(price decimal.Decimal) decimal.Decimal {
	rounded := price.Round(types.PriceDecimals)
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}

// ModelStatus describes the model the service was built with
type ModelStatus struct {
	State string     `json:"state"`
	Info  model.Info `json:"info"`
}

// ModelStatus reports whether estimates come from the model or the heuristic
func (s *Service) ModelStatus() ModelStatus {
	return ModelStatus{State: s.handle.State(), Info: s.handle.Info()}
}
