package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
	"realestate-price/internal/logging"
)

// handlePredictPrice handles POST /predict/price
func (s *Server) handlePredictPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodePriceRequest(w, r)
	if err != nil {
		s.writeError(w, string(perrors.TypeInvalidInput), err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.Estimate(ctx, req)
	if err != nil {
		if perrors.IsType(err, perrors.TypeInvalidInput) {
			var domainErr *perrors.Error
			msg := err.Error()
			if errors.As(err, &domainErr) {
				msg = domainErr.Message
			}
			s.writeError(w, string(perrors.TypeInvalidInput), msg, http.StatusBadRequest)
			return
		}
		s.writeInternalError(w, logging.FromContext(ctx, s.logger), err)
		return
	}

	w.Header().Set("X-Prediction-Source", strings.ToLower(result.Source.String()))
	s.writeJSON(w, PriceResponse{
		PredictedPrice: json.Number(result.PredictedPrice.StringFixed(types.PriceDecimals)),
	}, http.StatusOK)
}

func decodePriceRequest(w http.ResponseWriter, r *http.Request) (*types.PredictionRequest, error) {
	var body PriceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("request body is required")
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if body.Area == nil {
		return nil, fmt.Errorf("area is required")
	}
	if body.Address == nil {
		return nil, fmt.Errorf("address is required")
	}
	return body.toDomain(), nil
}

// handleHealth handles GET / and GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Message: "price prediction service is running",
		Version: s.version,
		Model:   s.service.ModelStatus().State,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, VersionResponse{
		Version:      s.version,
		Service:      "realestate-price",
		APIVersion:   "v1",
		CurrencyUnit: types.MonetaryUnit,
		AreaUnit:     types.AreaUnit,
		ModelKind:    s.service.ModelStatus().Info.Kind,
		Features:     types.FeatureColumns,
	}, http.StatusOK)
}
