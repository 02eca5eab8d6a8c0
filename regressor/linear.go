package regressor

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"leadtime-prediction-api/features"
)

// ScoringError reports a prediction that is not a finite number.
type ScoringError struct {
	Model string
	Value float64
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("model %s produced a non-finite prediction (%v)", e.Model, e.Value)
}

type numericStep struct {
	impute float64
	mean   float64
	scale  float64
}

// Linear is a fitted linear pipeline. The design vector holds the numeric
// block in schema order followed by one one-hot block per categorical
// feature, with levels sorted by name. It is immutable and safe for
// concurrent use.
type Linear struct {
	name      string
	intercept float64
	numeric   [features.NumNumeric]numericStep
	offsets   [features.NumCategorical]int
	levels    [features.NumCategorical]map[string]int
	weights   *mat.VecDense
}

func NewLinear(a Artifact) (*Linear, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	m := &Linear{name: a.Name, intercept: a.Intercept}
	coefs := make([]float64, features.NumNumeric)
	for _, t := range a.Numeric {
		_, i, _ := features.Lookup(t.Feature)
		scale := t.Scale
		if scale == 0 {
			scale = 1
		}
		m.numeric[i] = numericStep{impute: t.Impute, mean: t.Mean, scale: scale}
		coefs[i] = t.Coef
	}

	byIndex := make([]CategoricalTerm, features.NumCategorical)
	for _, t := range a.Categorical {
		_, j, _ := features.Lookup(t.Feature)
		byIndex[j] = t
	}
	weights := coefs
	for j, t := range byIndex {
		names := make([]string, 0, len(t.Levels))
		for level := range t.Levels {
			names = append(names, level)
		}
		sort.Strings(names)

		m.offsets[j] = len(weights)
		m.levels[j] = make(map[string]int, len(names))
		for k, level := range names {
			m.levels[j][level] = k
			weights = append(weights, t.Levels[level])
		}
	}
	m.weights = mat.NewVecDense(len(weights), weights)
	return m, nil
}

func (m *Linear) Name() string { return m.name }

// Dim is the length of the design vector.
func (m *Linear) Dim() int { return m.weights.Len() }

func (m *Linear) Predict(rec features.FeatureRecord) (float64, error) {
	x := m.design(rec)
	y := m.intercept + mat.Dot(m.weights, x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &ScoringError{Model: m.name, Value: y}
	}
	return y, nil
}

func (m *Linear) design(rec features.FeatureRecord) *mat.VecDense {
	x := mat.NewVecDense(m.weights.Len(), nil)
	for i, name := range features.NumericFeatures {
		step := m.numeric[i]
		v, ok := rec.Number(name)
		if !ok {
			v = step.impute
		}
		x.SetVec(i, (v-step.mean)/step.scale)
	}
	for j, name := range features.CategoricalFeatures {
		label, ok := rec.Label(name)
		if !ok {
			continue
		}
		if k, known := m.levels[j][label]; known {
			x.SetVec(m.offsets[j]+k, 1)
		}
	}
	return x
}
