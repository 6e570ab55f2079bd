package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
	"realestate-price/internal/logging"
)

// DefaultLoadTimeout bounds a single load attempt
const DefaultLoadTimeout = 5 * time.Second

// loadArtifact is swapped in tests to simulate a hanging read
var loadArtifact = loadFile

// Load reads the artifact at path and returns a Present handle, or an Absent
// handle when the artifact is missing, unreadable or too slow to load.
// It never returns an error: the service must always be able to start.
func Load(ctx context.Context, path string, timeout time.Duration, logger *zap.Logger) *Handle {
	logger = logging.OrGlobal(logger).With(zap.String("model_path", path))

	if strings.TrimSpace(path) == "" {
		logger.Warn("No model path configured, serving heuristic estimates only")
		return Absent()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Model artifact not found, serving heuristic estimates only")
			return Absent()
		}
		logger.Error("Model artifact is not accessible, serving heuristic estimates only",
			zap.Error(perrors.ModelLoad("stat artifact", err)))
		return Absent()
	}

	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type loaded struct {
		handle *Handle
		err    error
	}
	load := loadArtifact
	done := make(chan loaded, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- loaded{err: fmt.Errorf("panic while decoding: %v", r)}
			}
		}()
		h, err := load(path)
		done <- loaded{handle: h, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			logger.Error("Failed to load model artifact, serving heuristic estimates only", zap.Error(res.err))
			return Absent()
		}
		info := res.handle.Info()
		logger.Info("Loaded prediction model",
			zap.String("kind", info.Kind),
			zap.String("objective", info.Objective),
			zap.Int("trees", info.Trees))
		return res.handle
	case <-ctx.Done():
		logger.Error("Model load did not finish in time, serving heuristic estimates only",
			zap.Duration("timeout", timeout),
			zap.Error(perrors.ModelLoad("load aborted", ctx.Err())))
		return Absent()
	}
}

// Inspect decodes the artifact at path without installing it
func Inspect(path string) (Info, error) {
	h, err := loadFile(path)
	if err != nil {
		return Info{}, err
	}
	return h.Info(), nil
}

func loadFile(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.ModelLoad("read artifact", err)
	}
	m, info, err := Decode(data)
	if err != nil {
		return nil, perrors.ModelLoad("decode artifact", err).WithContext("path", path)
	}
	info.Path = path
	info.LoadedAt = time.Now().UTC()
	return Present(m, info), nil
}

// Decode detects the artifact kind and builds the matching Regressor
func Decode(data []byte) (Regressor, Info, error) {
	var probe struct {
		Kind    string          `json:"kind"`
		Learner json.RawMessage `json:"learner"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, Info{}, fmt.Errorf("artifact is not valid JSON: %w", err)
	}

	switch {
	case len(probe.Learner) > 0 || probe.Kind == KindXGBoost:
		m, err := parseXGBoost(data)
		if err != nil {
			return nil, Info{}, err
		}
		if err := checkFeatureNames(m.features, m.numFeatures); err != nil {
			return nil, Info{}, err
		}
		return m, Info{Kind: KindXGBoost, Objective: m.objective, Features: m.features, Trees: m.Trees()}, nil

	case probe.Kind == KindLinear:
		m, err := parseLinear(data)
		if err != nil {
			return nil, Info{}, err
		}
		if err := checkFeatureNames(m.features, len(m.Coefficients)); err != nil {
			return nil, Info{}, err
		}
		return m, Info{Kind: KindLinear, Features: m.features}, nil

	default:
		return nil, Info{}, fmt.Errorf("unrecognized artifact format (kind %q)", probe.Kind)
	}
}

// checkFeatureNames rejects artifacts trained on a different column layout
func checkFeatureNames(names []string, width int) error {
	if width != len(types.FeatureColumns) {
		return fmt.Errorf("model expects %d features, service provides %d", width, len(types.FeatureColumns))
	}
	if len(names) == 0 {
		return nil
	}
	if len(names) != len(types.FeatureColumns) {
		return fmt.Errorf("model declares %d feature names, service provides %d", len(names), len(types.FeatureColumns))
	}
	for i, name := range names {
		if name != types.FeatureColumns[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, types.FeatureColumns[i])
		}
	}
	return nil
}
