package model

import (
	"math"
	"tumotrack/pkg/domain"

	"github.com/go-faster/errors"
	"gonum.org/v1/gonum/mat"
)

// Artifact kinds understood by the loader.
const (
	KindStandardScaler     = "standard_scaler"
	KindIdentity           = "identity"
	KindLogisticRegression = "logistic_regression"
	KindSumThreshold       = "sum_threshold"
)

// Probabilities holds the class probabilities indexed by label.
type Probabilities [2]float64

// Of returns the probability of l.
func (p Probabilities) Of(l domain.Label) float64 { return p[l] }

// Classifier maps a normalized feature vector to a class label and class probabilities.
type Classifier interface {
	// Kind returns the artifact kind of the classifier.
	Kind() string
	// NumFeatures returns the expected vector length.
	NumFeatures() int
	// Predict returns the class label of x.
	Predict(x []float64) (domain.Label, error)
	// PredictProba returns the probabilities of both classes for x.
	PredictProba(x []float64) (Probabilities, error)
}

// LogisticRegression is a fitted binary logistic regression.
type LogisticRegression struct {
	coef      *mat.VecDense
	intercept float64
}

// NewLogisticRegression builds a classifier from the fitted coefficients.
func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, errors.New("logistic regression: empty coef")
	}
	c := make([]float64, len(coef))
	copy(c, coef)

	return &LogisticRegression{coef: mat.NewVecDense(len(c), c), intercept: intercept}, nil
}

func (l *LogisticRegression) Kind() string { return KindLogisticRegression }

func (l *LogisticRegression) NumFeatures() int { return l.coef.Len() }

// DecisionFunction returns the signed distance of x to the separating hyperplane.
func (l *LogisticRegression) DecisionFunction(x []float64) (float64, error) {
	if len(x) != l.coef.Len() {
		return 0, errors.Errorf("logistic regression: expected %d features, got %d", l.coef.Len(), len(x))
	}

	return mat.Dot(l.coef, mat.NewVecDense(len(x), x)) + l.intercept, nil
}

// Predict returns malignant when the decision function is strictly positive.
func (l *LogisticRegression) Predict(x []float64) (domain.Label, error) {
	z, err := l.DecisionFunction(x)
	if err != nil {
		return domain.LabelBenign, err
	}
	if z > 0 {
		return domain.LabelMalignant, nil
	}

	return domain.LabelBenign, nil
}

func (l *LogisticRegression) PredictProba(x []float64) (Probabilities, error) {
	z, err := l.DecisionFunction(x)
	if err != nil {
		return Probabilities{}, err
	}
	p := sigmoid(z)

	return Probabilities{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)

	return e / (1 + e)
}

// SumThreshold is the placeholder classifier of the toy dialog: the record is
// malignant when the sum of its values is strictly greater than Threshold,
// and the chosen class always gets probability Confidence.
type SumThreshold struct {
	Features   int
	Threshold  float64
	Confidence float64
}

func (s *SumThreshold) Kind() string { return KindSumThreshold }

func (s *SumThreshold) NumFeatures() int { return s.Features }

func (s *SumThreshold) Predict(x []float64) (domain.Label, error) {
	if s.Features > 0 && len(x) != s.Features {
		return domain.LabelBenign, errors.Errorf("sum threshold: expected %d features, got %d", s.Features, len(x))
	}

	sum := 0.0
	for _, v := range x {
		sum += v
	}
	if sum > s.Threshold {
		return domain.LabelMalignant, nil
	}

	return domain.LabelBenign, nil
}

func (s *SumThreshold) PredictProba(x []float64) (Probabilities, error) {
	label, err := s.Predict(x)
	if err != nil {
		return Probabilities{}, err
	}

	var p Probabilities
	p[label] = s.Confidence
	p[1-label] = 1 - s.Confidence

	return p, nil
}
