package domain

import (
	"time"

	"github.com/google/uuid"
)

// Label is the class predicted for a tissue sample.
type Label int

const (
	// LabelBenign is the non-cancerous class (0).
	LabelBenign Label = 0
	// LabelMalignant is the cancerous class (1).
	LabelMalignant Label = 1
)

// String returns the upper-case name displayed by the web form and the desktop dialog.
func (l Label) String() string {
	if l == LabelMalignant {
		return "MALIGNANT"
	}

	return "BENIGN"
}

// ToyString returns the wording used by the toy dialog.
func (l Label) ToyString() string {
	if l == LabelMalignant {
		return "Cancerous"
	}

	return "Non-Cancerous"
}

// ParseLabel converts a stored label name back to a Label.
func ParseLabel(s string) (Label, bool) {
	switch s {
	case LabelBenign.String():
		return LabelBenign, true
	case LabelMalignant.String():
		return LabelMalignant, true
	default:
		return LabelBenign, false
	}
}

// Source identifies the front-end a prediction was requested from.
type Source string

const (
	SourceWeb     Source = "web"
	SourceAPI     Source = "api"
	SourceCLI     Source = "cli"
	SourceDesktop Source = "desktop"
	SourceToy     Source = "toy"
)

// PredictionID uniquely identifies a journaled prediction.
type PredictionID uuid.UUID

// String returns the canonical UUID form of the ID.
func (id PredictionID) String() string { return uuid.UUID(id).String() }

// Prediction is the outcome of a single inference call.
type Prediction struct {
	// ID is assigned when the prediction is created.
	ID PredictionID `json:"id"`
	// Source is the front-end that requested the prediction.
	Source Source `json:"source"`
	// Model names the classifier artifact that produced the prediction.
	Model string `json:"model"`

	// Label is the predicted class.
	Label Label `json:"label"`
	// BenignProbability is the probability of class 0.
	BenignProbability float64 `json:"benignProbability"`
	// MalignantProbability is the probability of class 1.
	MalignantProbability float64 `json:"malignantProbability"`

	// Values are the raw inputs in feature order.
	Values []float64 `json:"values"`
	// Cached reports whether the result was served from the result cache.
	Cached bool `json:"-"`

	// CreatedAt is the time the prediction was made.
	CreatedAt time.Time `json:"createdAt"`
}

// Probability returns the probability of the given class.
func (p *Prediction) Probability(l Label) float64 {
	if l == LabelMalignant {
		return p.MalignantProbability
	}

	return p.BenignProbability
}

// Confidence returns the probability of the predicted class.
func (p *Prediction) Confidence() float64 {
	return p.Probability(p.Label)
}
