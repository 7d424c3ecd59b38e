//go:generate mockgen -package mockstorage -source=prediction.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
	"tumotrack/pkg/domain"

	"github.com/google/uuid"
)

// Cursor is the position of the last prediction of a page. Pages are ordered
// by (CreatedAt, ID) descending, so predictions sharing a creation time are
// split between pages without loss.
type Cursor struct {
	CreatedAt time.Time
	ID        domain.PredictionID
}

// String encodes the cursor as "<RFC3339Nano created_at>_<id>".
func (c Cursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + c.ID.String()
}

// ParseCursor decodes a cursor produced by Cursor.String.
func ParseCursor(s string) (Cursor, error) {
	ts, id, ok := strings.Cut(s, "_")
	if !ok {
		return Cursor{}, fmt.Errorf("cursor %q has no id", s)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("could not parse cursor time: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("could not parse cursor id: %w", err)
	}

	return Cursor{CreatedAt: createdAt, ID: domain.PredictionID(parsed)}, nil
}

// PredictionPage groups a page of journaled predictions together with an
// optional NextCursor used for pagination.
type PredictionPage struct {
	// Predictions contains the current page, newest first.
	Predictions []domain.Prediction
	// NextCursor is the position to pass for the next page. It is nil when
	// there is no next page.
	NextCursor *Cursor
}

// PredictionStorage defines the operations of the prediction journal.
type PredictionStorage interface {
	// StorePrediction appends a prediction and returns the stored row.
	StorePrediction(ctx context.Context, prediction domain.Prediction) (*domain.Prediction, error)
	// RecentPredictions returns a page of predictions positioned after the
	// optional cursor, newest first, limited by limit.
	RecentPredictions(ctx context.Context, cursor *Cursor, limit uint) (PredictionPage, error)
	// PredictionByID fetches a single prediction. Returns nil when not found.
	PredictionByID(ctx context.Context, id domain.PredictionID) (*domain.Prediction, error)
}
