package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// identityObjectives are XGBoost objectives whose raw margin is the prediction
var identityObjectives = map[string]bool{
	"":                     true,
	"reg:squarederror":     true,
	"reg:linear":           true,
	"reg:absoluteerror":    true,
	"reg:pseudohubererror": true,
	"reg:quantileerror":    true,
}

// xgbDocument mirrors the subset of XGBoost's save_model JSON schema we read
type xgbDocument struct {
	Learner struct {
		FeatureNames      []string `json:"feature_names"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int      `json:"left_children"`
	RightChildren   []int      `json:"right_children"`
	SplitIndices    []int      `json:"split_indices"`
	SplitConditions []float64  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
	SplitTypes      []int      `json:"split_type"`
}

// flexBool accepts 0/1 as well as true/false, both appear across XGBoost versions
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "1", "true":
		*b = true
	case "0", "false":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// TreeEnsemble is a gradient-boosted regression tree ensemble
type TreeEnsemble struct {
	baseScore   float64
	numFeatures int
	trees       []xgbTree
	objective   string
	features    []string
}

// parseXGBoost decodes and validates an XGBoost JSON model
func parseXGBoost(data []byte) (*TreeEnsemble, error) {
	var doc xgbDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode xgboost model: %w", err)
	}

	l := doc.Learner
	if name := l.GradientBooster.Name; name != "" && name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q", name)
	}
	if !identityObjectives[l.Objective.Name] {
		return nil, fmt.Errorf("unsupported objective %q", l.Objective.Name)
	}

	baseScore, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}

	numFeatures := len(l.FeatureNames)
	if raw := l.LearnerModelParam.NumFeature; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid num_feature %q: %w", raw, err)
		}
		numFeatures = n
	}
	if numFeatures <= 0 {
		return nil, fmt.Errorf("model does not declare its feature count")
	}

	trees := l.GradientBooster.Model.Trees
	if len(trees) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	for i := range trees {
		if err := trees[i].validate(numFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &TreeEnsemble{
		baseScore:   baseScore,
		numFeatures: numFeatures,
		trees:       trees,
		objective:   l.Objective.Name,
		features:    l.FeatureNames,
	}, nil
}

// parseBaseScore handles both "5E-1" and the newer "[5E-1]" encodings
func parseBaseScore(raw string) (float64, error) {
	s := strings.Trim(strings.TrimSpace(raw), "[]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", raw, err)
	}
	return v, nil
}

func (t *xgbTree) validate(numFeatures int) error {
	n := len(t.LeftChildren)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return fmt.Errorf("node arrays have mismatched lengths")
	}
	if len(t.DefaultLeft) != 0 && len(t.DefaultLeft) != n {
		return fmt.Errorf("default_left has %d entries, want %d", len(t.DefaultLeft), n)
	}
	if len(t.SplitTypes) != 0 && len(t.SplitTypes) != n {
		return fmt.Errorf("split_type has %d entries, want %d", len(t.SplitTypes), n)
	}
	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			continue
		}
		// Children always follow their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has invalid children (%d, %d)", i, l, r)
		}
		if idx := t.SplitIndices[i]; idx < 0 || idx >= numFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, idx, numFeatures)
		}
		if len(t.SplitTypes) > 0 && t.SplitTypes[i] != 0 {
			return fmt.Errorf("node %d uses a categorical split, only numerical splits are supported", i)
		}
	}
	return nil
}

// leaf walks one tree. XGBoost stores thresholds and inputs as float32, so
// splits are compared at that precision.
func (t *xgbTree) leaf(features []float64) float64 {
	node := 0
	for t.LeftChildren[node] != -1 {
		x := features[t.SplitIndices[node]]
		switch {
		case math.IsNaN(x):
			if len(t.DefaultLeft) > 0 && bool(t.DefaultLeft[node]) {
				node = t.LeftChildren[node]
			} else {
				node = t.RightChildren[node]
			}
		case float32(x) < float32(t.SplitConditions[node]):
			node = t.LeftChildren[node]
		default:
			node = t.RightChildren[node]
		}
	}
	return t.SplitConditions[node]
}

// Predict implements Regressor
func (m *TreeEnsemble) Predict(features []float64) ([]float64, error) {
	if len(features) != m.numFeatures {
		return nil, fmt.Errorf("feature shape mismatch: expected %d, got %d", m.numFeatures, len(features))
	}
	sum := m.baseScore
	for i := range m.trees {
		sum += m.trees[i].leaf(features)
	}
	return []float64{sum}, nil
}

// Trees returns the number of trees in the ensemble
func (m *TreeEnsemble) Trees() int {
	return len(m.trees)
}
