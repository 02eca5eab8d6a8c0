package features

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type nullFloat struct {
	v     float64
	valid bool
}

type nullString struct {
	v     string
	valid bool
}

// FeatureRecord holds one value per schema feature. A zero FeatureRecord has
// every feature present and null.
type FeatureRecord struct {
	numeric     [NumNumeric]nullFloat
	categorical [NumCategorical]nullString
}

func (r *FeatureRecord) setNumeric(name string, v float64, valid bool) {
	kind, i, ok := Lookup(name)
	if !ok || kind != Numeric {
		panic(fmt.Sprintf("features: %q is not a numeric feature", name))
	}
	r.numeric[i] = nullFloat{v: v, valid: valid}
}

func (r *FeatureRecord) setCategorical(name string, v string, valid bool) {
	kind, i, ok := Lookup(name)
	if !ok || kind != Categorical {
		panic(fmt.Sprintf("features: %q is not a categorical feature", name))
	}
	r.categorical[i] = nullString{v: v, valid: valid}
}

// Number returns a numeric feature. ok is false when the value is null or the
// name is not a numeric feature.
func (r FeatureRecord) Number(name string) (float64, bool) {
	kind, i, ok := Lookup(name)
	if !ok || kind != Numeric || !r.numeric[i].valid {
		return 0, false
	}
	return r.numeric[i].v, true
}

// Label returns a categorical feature. ok is false when the value is null or
// the name is not a categorical feature.
func (r FeatureRecord) Label(name string) (string, bool) {
	kind, i, ok := Lookup(name)
	if !ok || kind != Categorical || !r.categorical[i].valid {
		return "", false
	}
	return r.categorical[i].v, true
}

// Value returns the feature as float64, string, or nil when null.
func (r FeatureRecord) Value(name string) (any, bool) {
	kind, i, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	if kind == Numeric {
		if !r.numeric[i].valid {
			return nil, true
		}
		return r.numeric[i].v, true
	}
	if !r.categorical[i].valid {
		return nil, true
	}
	return r.categorical[i].v, true
}

// Map flattens the record into name -> value with nil for null features.
func (r FeatureRecord) Map() map[string]any {
	m := make(map[string]any, NumFeatures)
	for _, name := range Schema() {
		m[name], _ = r.Value(name)
	}
	return m
}

// MarshalJSON writes the record as an object whose keys follow Schema order.
func (r FeatureRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range Schema() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		v, _ := r.Value(name)
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal feature %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the object produced by MarshalJSON. Missing keys
// decode as null; keys outside the schema are rejected.
func (r *FeatureRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out FeatureRecord
	for name, msg := range raw {
		kind, _, ok := Lookup(name)
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		if string(msg) == "null" {
			continue
		}
		switch kind {
		case Numeric:
			var f float64
			if err := json.Unmarshal(msg, &f); err != nil {
				return fmt.Errorf("feature %s: %w", name, err)
			}
			out.setNumeric(name, f, true)
		case Categorical:
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("feature %s: %w", name, err)
			}
			out.setCategorical(name, s, true)
		}
	}
	*r = out
	return nil
}
