// Package model loads the fitted scaler and classifier artifacts and runs
// inference with them.
//
// Artifacts are JSON exports of the parameters of models fitted by an
// external library. Every artifact carries a "kind" which selects the decoder:
//
//	{"kind": "standard_scaler", "features": [...], "mean": [...], "scale": [...]}
//	{"kind": "logistic_regression", "classes": [0, 1], "coef": [...], "intercept": 0.1}
//	{"kind": "sum_threshold", "threshold": 15, "confidence": 0.87}
//
// Two-dimensional coef and one-element intercept arrays, as written by the
// fitting library for binary problems, are accepted as well.
package model

import (
	"math"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrUnknownKind is returned when an artifact names a kind no decoder exists for.
var ErrUnknownKind = errors.New("unknown artifact kind")

// artifact is the union of the fields used by all artifact kinds.
type artifact struct {
	Kind       string
	Name       string
	Features   []string
	Mean       []float64
	Scale      []float64
	Coef       []float64
	Classes    []int
	Intercept  float64
	Threshold  float64
	Confidence float64
}

func readArtifact(path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	a, err := decodeArtifact(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return a, nil
}

func decodeArtifact(data []byte) (*artifact, error) {
	var a artifact
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "kind":
			a.Kind, err = d.Str()
		case "name":
			a.Name, err = d.Str()
		case "features":
			a.Features, err = decodeStrings(d)
		case "mean":
			a.Mean, err = decodeFloats(d)
		case "scale":
			a.Scale, err = decodeFloats(d)
		case "coef":
			a.Coef, err = decodeFloats(d)
		case "classes":
			a.Classes, err = decodeInts(d)
		case "intercept":
			a.Intercept, err = decodeScalar(d)
		case "threshold":
			a.Threshold, err = d.Float64()
		case "confidence":
			a.Confidence, err = d.Float64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}

		return nil
	})
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	if a.Kind == "" {
		return nil, errors.New("missing kind")
	}

	return &a, nil
}

func decodeStrings(d *jx.Decoder) ([]string, error) {
	var out []string
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err //nolint: wrapcheck
		}
		out = append(out, s)

		return nil
	})

	return out, err //nolint: wrapcheck
}

func decodeInts(d *jx.Decoder) ([]int, error) {
	var out []int
	err := d.Arr(func(d *jx.Decoder) error {
		n, err := d.Int()
		if err != nil {
			return err //nolint: wrapcheck
		}
		out = append(out, n)

		return nil
	})

	return out, err //nolint: wrapcheck
}

// decodeFloats reads a flat array of numbers. A nested array with exactly
// one row is flattened.
func decodeFloats(d *jx.Decoder) ([]float64, error) {
	var out []float64
	rows := 0
	err := d.Arr(func(d *jx.Decoder) error {
		if d.Next() == jx.Array {
			rows++
			if rows > 1 {
				return errors.New("only a single row is supported")
			}
			inner, err := decodeFloats(d)
			out = append(out, inner...)

			return err
		}

		f, err := d.Float64()
		if err != nil {
			return err //nolint: wrapcheck
		}
		out = append(out, f)

		return nil
	})
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	return out, checkFinite(out...)
}

// decodeScalar reads a number or a one-element array of numbers.
func decodeScalar(d *jx.Decoder) (float64, error) {
	if d.Next() != jx.Array {
		f, err := d.Float64()
		if err != nil {
			return 0, err //nolint: wrapcheck
		}

		return f, checkFinite(f)
	}

	values, err := decodeFloats(d)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, errors.Errorf("expected 1 value, got %d", len(values))
	}

	return values[0], nil
}

func checkFinite(values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("value %d is not finite", i)
		}
	}

	return nil
}
