package model

import (
	"github.com/go-faster/errors"
	"gonum.org/v1/gonum/mat"
)

// Scaler normalizes a raw feature vector with parameters stored at fitting time.
type Scaler interface {
	// Kind returns the artifact kind of the scaler.
	Kind() string
	// NumFeatures returns the expected vector length, or 0 when any length is accepted.
	NumFeatures() int
	// FeatureNames returns the column names the scaler was fitted with, if known.
	FeatureNames() []string
	// Transform returns the normalized copy of x.
	Transform(x []float64) ([]float64, error)
}

// StandardScaler removes the fitted mean and divides by the fitted scale.
type StandardScaler struct {
	features []string
	mean     *mat.VecDense
	scale    *mat.VecDense
}

// NewStandardScaler builds a scaler from fitted parameters. A zero scale is
// replaced by 1 so constant features pass through centered but unscaled.
func NewStandardScaler(features []string, mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.New("standard scaler: empty mean")
	}
	if len(mean) != len(scale) {
		return nil, errors.Errorf("standard scaler: mean has %d values, scale has %d", len(mean), len(scale))
	}
	if len(features) != 0 && len(features) != len(mean) {
		return nil, errors.Errorf("standard scaler: %d feature names for %d values", len(features), len(mean))
	}

	s := make([]float64, len(scale))
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s[i] = v
	}
	m := make([]float64, len(mean))
	copy(m, mean)

	return &StandardScaler{
		features: features,
		mean:     mat.NewVecDense(len(m), m),
		scale:    mat.NewVecDense(len(s), s),
	}, nil
}

func (s *StandardScaler) Kind() string { return KindStandardScaler }

func (s *StandardScaler) NumFeatures() int { return s.mean.Len() }

func (s *StandardScaler) FeatureNames() []string { return s.features }

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != s.mean.Len() {
		return nil, errors.Errorf("standard scaler: expected %d features, got %d", s.mean.Len(), len(x))
	}

	in := make([]float64, len(x))
	copy(in, x)
	v := mat.NewVecDense(len(in), in)
	v.SubVec(v, s.mean)
	v.DivElemVec(v, s.scale)

	return v.RawVector().Data, nil
}

// IdentityScaler returns its input unchanged.
type IdentityScaler struct{}

func (IdentityScaler) Kind() string { return KindIdentity }

func (IdentityScaler) NumFeatures() int { return 0 }

func (IdentityScaler) FeatureNames() []string { return nil }

func (IdentityScaler) Transform(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	copy(out, x)

	return out, nil
}
