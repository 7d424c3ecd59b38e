// Package predictor runs feature records through the loaded model pipeline.
// It owns the pipeline, memoises results and records them in the optional
// prediction journal.
package predictor

import (
	"context"
	"tumotrack/pkg/domain"
)

//go:generate mockgen -package mockpredictor -source=interface.go -destination=mock/mockpredictor.go *
type Predictor interface {
	// Ready returns nil once the artifacts are loaded, or the load error.
	Ready() error
	// Model names the loaded classifier.
	Model() string
	// Features returns the record layout the predictor expects.
	Features() []domain.Feature
	// Predict classifies a record on behalf of source.
	Predict(ctx context.Context, source domain.Source, record domain.Record) (*domain.Prediction, error)
	// Recent returns a page of journaled predictions before cursor, newest
	// first, together with the cursor of the next page.
	Recent(ctx context.Context, cursor string, limit uint) ([]domain.Prediction, string, error)
	// Get returns a journaled prediction.
	Get(ctx context.Context, id domain.PredictionID) (*domain.Prediction, error)
}
