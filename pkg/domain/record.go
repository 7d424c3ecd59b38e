package domain

import "fmt"

// Record is a single feature record: one numeric value per feature, held in
// the order of the feature list it was built from.
type Record struct {
	features []Feature
	values   []float64
}

// NewRecord binds values to features. The lengths must match.
func NewRecord(features []Feature, values []float64) (Record, error) {
	if len(features) != len(values) {
		return Record{}, fmt.Errorf("expected %d values, got %d", len(features), len(values))
	}

	v := make([]float64, len(values))
	copy(v, values)

	return Record{features: features, values: v}, nil
}

// Features returns the feature list the record is bound to.
func (r Record) Features() []Feature { return r.features }

// Values returns a copy of the values in feature order.
func (r Record) Values() []float64 {
	v := make([]float64, len(r.values))
	copy(v, r.values)

	return v
}

// Len returns the number of values.
func (r Record) Len() int { return len(r.values) }

// Value returns the value of the feature with the given key.
func (r Record) Value(key string) (float64, bool) {
	for i, f := range r.features {
		if f.Key == key {
			return r.values[i], true
		}
	}

	return 0, false
}

// Map returns the values keyed by feature key.
func (r Record) Map() map[string]float64 {
	out := make(map[string]float64, len(r.values))
	for i, f := range r.features {
		out[f.Key] = r.values[i]
	}

	return out
}
