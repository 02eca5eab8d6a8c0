package regressor

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtime-prediction-api/features"
)

// neutralArtifact uses every feature with zero weight.
func neutralArtifact() Artifact {
	a := Artifact{Name: "lead_time_test"}
	for _, name := range features.NumericFeatures {
		a.Numeric = append(a.Numeric, NumericTerm{Feature: name, Scale: 1})
	}
	for _, name := range features.CategoricalFeatures {
		a.Categorical = append(a.Categorical, CategoricalTerm{Feature: name, Levels: map[string]float64{}})
	}
	return a
}

func sampleArtifact() Artifact {
	a := neutralArtifact()
	a.Intercept = 10
	for i := range a.Numeric {
		switch a.Numeric[i].Feature {
		case features.OrderQty:
			a.Numeric[i] = NumericTerm{Feature: features.OrderQty, Impute: 100, Mean: 100, Scale: 50, Coef: 2}
		case features.PromisedLeadTimeDays:
			a.Numeric[i] = NumericTerm{Feature: features.PromisedLeadTimeDays, Impute: 0, Mean: 0, Scale: 0, Coef: 0.5}
		}
	}
	for i := range a.Categorical {
		if a.Categorical[i].Feature == features.SupplierRegion {
			a.Categorical[i].Levels = map[string]float64{"EMEA": -1, "APAC": 1.5}
		}
	}
	return a
}

func record(t *testing.T, values map[string]any) features.FeatureRecord {
	t.Helper()
	data, err := json.Marshal(values)
	require.NoError(t, err)
	var rec features.FeatureRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func TestLinearPredict(t *testing.T) {
	m, err := NewLinear(sampleArtifact())
	require.NoError(t, err)
	assert.Equal(t, "lead_time_test", m.Name())
	assert.Equal(t, features.NumNumeric+2, m.Dim())

	tests := []struct {
		name   string
		values map[string]any
		want   float64
	}{
		{
			name:   "all terms",
			values: map[string]any{features.OrderQty: 200, features.PromisedLeadTimeDays: 14, features.SupplierRegion: "APAC"},
			want:   10 + 2*2 + 0.5*14 + 1.5,
		},
		{
			name:   "other level",
			values: map[string]any{features.OrderQty: 50, features.SupplierRegion: "EMEA"},
			want:   10 + 2*-1 - 1,
		},
		{
			name:   "null numeric is imputed",
			values: map[string]any{features.PromisedLeadTimeDays: 4},
			want:   10 + 0.5*4,
		},
		{
			name:   "unseen level contributes nothing",
			values: map[string]any{features.OrderQty: 100, features.SupplierRegion: "LATAM"},
			want:   10,
		},
		{
			name:   "all null",
			values: map[string]any{},
			want:   10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(record(t, tt.values))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLinearPredictIsDeterministic(t *testing.T) {
	m, err := NewLinear(sampleArtifact())
	require.NoError(t, err)
	rec := record(t, map[string]any{features.OrderQty: 321, features.SupplierRegion: "APAC", features.Mode: "Air"})

	first, err := m.Predict(rec)
	require.NoError(t, err)
	for range 10 {
		again, err := m.Predict(rec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLinearNonFinite(t *testing.T) {
	a := sampleArtifact()
	a.Intercept = math.NaN()
	m, err := NewLinear(a)
	require.NoError(t, err)

	_, err = m.Predict(features.FeatureRecord{})
	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	assert.Equal(t, "lead_time_test", scoringErr.Model)
}

func TestArtifactValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Artifact)
		wantErr string
	}{
		{
			name:    "missing feature",
			mutate:  func(a *Artifact) { a.Numeric = a.Numeric[1:] },
			wantErr: `feature "order_qty" not covered`,
		},
		{
			name:    "duplicate feature",
			mutate:  func(a *Artifact) { a.Numeric = append(a.Numeric, a.Numeric[0]) },
			wantErr: "appears twice",
		},
		{
			name: "unknown feature",
			mutate: func(a *Artifact) {
				a.Numeric = append(a.Numeric, NumericTerm{Feature: "lead_time_days"})
			},
			wantErr: `unknown feature "lead_time_days"`,
		},
		{
			name: "wrong kind",
			mutate: func(a *Artifact) {
				a.Categorical = append(a.Categorical, CategoricalTerm{Feature: features.OrderQty})
			},
			wantErr: "is numeric",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := neutralArtifact()
			tt.mutate(&a)
			_, err := NewLinear(a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeArtifact(t *testing.T, dir, file string, a Artifact) {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0o644))
}

func TestDiscoverPicksFirstSorted(t *testing.T) {
	dir := t.TempDir()
	b := sampleArtifact()
	b.Name = ""
	writeArtifact(t, dir, "lead_time_v2.json", neutralArtifact())
	writeArtifact(t, dir, "lead_time_v1.json", b)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lead_time_v0.joblib"), []byte("x"), 0o644))

	path, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lead_time_v1.json"), path)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "lead_time_v1", m.Name())
}

func TestDiscoverEmptyDir(t *testing.T) {
	_, err := Discover(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoArtifact))

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNoArtifact)
}

func TestLoadFileRejectsBadArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lead_time_bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "decode model")

	a := neutralArtifact()
	a.Categorical = a.Categorical[:3]
	writeArtifact(t, dir, "lead_time_partial.json", a)
	_, err = LoadFile(filepath.Join(dir, "lead_time_partial.json"))
	assert.ErrorContains(t, err, "not covered")
}
