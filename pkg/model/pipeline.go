package model

import (
	"slices"
	"tumotrack/pkg/domain"

	"github.com/go-faster/errors"
)

// ToyThreshold and ToyConfidence parameterize the toy pipeline.
const (
	ToyThreshold  = 15
	ToyConfidence = 0.87
)

type (
	scalerDecoder     func(a *artifact) (Scaler, error)
	classifierDecoder func(a *artifact) (Classifier, error)
)

//nolint: gochecknoglobals
var scalerDecoders = map[string]scalerDecoder{
	KindStandardScaler: func(a *artifact) (Scaler, error) {
		return NewStandardScaler(a.Features, a.Mean, a.Scale)
	},
	KindIdentity: func(*artifact) (Scaler, error) {
		return IdentityScaler{}, nil
	},
}

//nolint: gochecknoglobals
var classifierDecoders = map[string]classifierDecoder{
	KindLogisticRegression: func(a *artifact) (Classifier, error) {
		if len(a.Classes) != 0 && !slices.Equal(a.Classes, []int{0, 1}) {
			return nil, errors.Errorf("logistic regression: unsupported classes %v", a.Classes)
		}

		return NewLogisticRegression(a.Coef, a.Intercept)
	},
	KindSumThreshold: func(a *artifact) (Classifier, error) {
		// The confidence belongs to the predicted class, so it cannot be
		// below the probability of the other one.
		if a.Confidence < 0.5 || a.Confidence > 1 {
			return nil, errors.Errorf("sum threshold: confidence %v out of [0.5,1]", a.Confidence)
		}

		return &SumThreshold{Features: len(a.Features), Threshold: a.Threshold, Confidence: a.Confidence}, nil
	},
}

// LoadScaler reads a scaler artifact from path.
func LoadScaler(path string) (Scaler, error) {
	a, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	dec, ok := scalerDecoders[a.Kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "scaler %q", a.Kind)
	}

	return dec(a)
}

// LoadClassifier reads a classifier artifact from path. The returned name is
// the artifact's "name" field, or its kind when absent.
func LoadClassifier(path string) (Classifier, string, error) {
	a, err := readArtifact(path)
	if err != nil {
		return nil, "", err
	}
	dec, ok := classifierDecoders[a.Kind]
	if !ok {
		return nil, "", errors.Wrapf(ErrUnknownKind, "classifier %q", a.Kind)
	}

	c, err := dec(a)
	if err != nil {
		return nil, "", err
	}

	name := a.Name
	if name == "" {
		name = a.Kind
	}

	return c, name, nil
}

// Output is the result of one inference call.
type Output struct {
	Label         domain.Label
	Probabilities Probabilities
}

// Pipeline chains a scaler and a classifier over a fixed feature list.
type Pipeline struct {
	Name       string
	Features   []domain.Feature
	Scaler     Scaler
	Classifier Classifier
}

// NewPipeline checks that the scaler and the classifier agree with the feature list.
func NewPipeline(name string, features []domain.Feature, scaler Scaler, classifier Classifier) (*Pipeline, error) {
	n := len(features)
	if n == 0 {
		return nil, errors.New("no features")
	}
	if k := scaler.NumFeatures(); k != 0 && k != n {
		return nil, errors.Errorf("scaler expects %d features, record has %d", k, n)
	}
	if names := scaler.FeatureNames(); len(names) != 0 && !slices.Equal(names, domain.FeatureKeys(features)) {
		return nil, errors.New("scaler feature names do not match the record layout")
	}
	if k := classifier.NumFeatures(); k != 0 && k != n {
		return nil, errors.Errorf("classifier expects %d features, record has %d", k, n)
	}

	return &Pipeline{Name: name, Features: features, Scaler: scaler, Classifier: classifier}, nil
}

// Load reads both artifacts and builds the pipeline for the given features.
func Load(scalerPath, classifierPath string, features []domain.Feature) (*Pipeline, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, errors.Wrap(err, "load scaler")
	}
	classifier, name, err := LoadClassifier(classifierPath)
	if err != nil {
		return nil, errors.Wrap(err, "load classifier")
	}

	return NewPipeline(name, features, scaler, classifier)
}

// Toy returns the pipeline behind the toy dialog.
func Toy() *Pipeline {
	return &Pipeline{
		Name:     KindSumThreshold,
		Features: domain.ToyFeatures(),
		Scaler:   IdentityScaler{},
		Classifier: &SumThreshold{
			Features:   domain.ToyFeatureCount,
			Threshold:  ToyThreshold,
			Confidence: ToyConfidence,
		},
	}
}

// Predict scales values and classifies them.
func (p *Pipeline) Predict(values []float64) (Output, error) {
	if len(values) != len(p.Features) {
		return Output{}, errors.Errorf("expected %d values, got %d", len(p.Features), len(values))
	}
	if err := checkFinite(values...); err != nil {
		return Output{}, err
	}

	scaled, err := p.Scaler.Transform(values)
	if err != nil {
		return Output{}, errors.Wrap(err, "scale")
	}
	label, err := p.Classifier.Predict(scaled)
	if err != nil {
		return Output{}, errors.Wrap(err, "predict")
	}
	proba, err := p.Classifier.PredictProba(scaled)
	if err != nil {
		return Output{}, errors.Wrap(err, "predict proba")
	}

	return Output{Label: label, Probabilities: proba}, nil
}
