// Package regressor loads the lead-time model artifact and scores feature
// records against it.
package regressor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"leadtime-prediction-api/features"
)

const artifactPattern = "lead_time_*.json"

var ErrNoArtifact = errors.New("model artifact missing")

// Model maps a complete feature record to a predicted lead time in days.
type Model interface {
	Name() string
	Predict(rec features.FeatureRecord) (float64, error)
}

// Artifact is the serialized form of a fitted linear pipeline.
type Artifact struct {
	Name        string            `json:"name"`
	Target      string            `json:"target,omitempty"`
	Intercept   float64           `json:"intercept"`
	Numeric     []NumericTerm     `json:"numeric"`
	Categorical []CategoricalTerm `json:"categorical"`
}

// NumericTerm imputes a missing value, standardizes, then weighs it.
type NumericTerm struct {
	Feature string  `json:"feature"`
	Impute  float64 `json:"impute"`
	Mean    float64 `json:"mean"`
	Scale   float64 `json:"scale"`
	Coef    float64 `json:"coef"`
}

// CategoricalTerm one-hot encodes a label. Levels absent from the map,
// including a missing label, contribute nothing.
type CategoricalTerm struct {
	Feature string             `json:"feature"`
	Levels  map[string]float64 `json:"levels"`
}

// Discover returns the artifact path that sorts first in dir.
func Discover(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, artifactPattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s (expected %s)", ErrNoArtifact, dir, artifactPattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// Load discovers and loads the artifact in dir.
func Load(dir string) (*Linear, error) {
	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	m, err := NewLinear(a)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// validate checks that every schema feature is used exactly once and with
// the kind the schema declares.
func (a Artifact) validate() error {
	seen := make(map[string]bool, features.NumFeatures)
	check := func(name string, want features.Kind) error {
		kind, _, ok := features.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		if kind != want {
			return fmt.Errorf("feature %q is %s, artifact uses it as %s", name, kind, want)
		}
		if seen[name] {
			return fmt.Errorf("feature %q appears twice", name)
		}
		seen[name] = true
		return nil
	}
	for _, t := range a.Numeric {
		if err := check(t.Feature, features.Numeric); err != nil {
			return err
		}
	}
	for _, t := range a.Categorical {
		if err := check(t.Feature, features.Categorical); err != nil {
			return err
		}
	}
	for _, name := range features.Schema() {
		if !seen[name] {
			return fmt.Errorf("feature %q not covered", name)
		}
	}
	return nil
}
