// Package api - Thin HTTP layer over the valuation service
// The API is ONLY responsible for: request decoding, calling the service and
// response encoding. It never computes prices itself.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"realestate-price/core/types"
	"realestate-price/core/valuation"
	perrors "realestate-price/internal/errors"
	"realestate-price/internal/logging"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Estimator is the service surface the API depends on
type Estimator interface {
	Estimate(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResult, error)
	ModelStatus() valuation.ModelStatus
}

// Server is the API server
type Server struct {
	service Estimator
	mux     *http.ServeMux
	version string
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(version string, service Estimator, logger *zap.Logger) *Server {
	s := &Server{
		service: service,
		mux:     http.NewServeMux(),
		version: version,
		logger:  logging.OrGlobal(logger),
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /predict/price", s.handlePredictPrice)

	s.mux.HandleFunc("GET /{$}", s.handleHealth)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// ServeHTTP implements http.Handler.
// Every request gets an ID, a scoped logger and panic protection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	logger := s.logger.With(zap.String("request_id", requestID))
	r = r.WithContext(logging.WithLogger(r.Context(), logger))

	defer func() {
		if rec := recover(); rec != nil {
			s.writeInternalError(w, logger, fmt.Errorf("handler panicked: %v", rec), zap.String("path", r.URL.Path))
		}
	}()

	s.mux.ServeHTTP(w, r)

	logger.Debug("Handled request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)))
}

// HTTPServer wraps the API in an http.Server with the given timeouts
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// writeInternalError logs cause and answers 500 without exposing it
func (s *Server) writeInternalError(w http.ResponseWriter, logger *zap.Logger, cause error, fields ...zap.Field) {
	e := perrors.Internal("internal server error", cause)
	logger.Error("Request failed", append(fields, zap.Error(e))...)
	s.writeError(w, string(e.Type), e.Message, http.StatusInternalServerError)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorBody{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: w.Header().Get("X-Request-ID"),
		},
	}, status)
}
