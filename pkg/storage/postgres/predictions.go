package postgres

import (
	"context"
	"fmt"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	predictionsTable = "predictions"
)

// StorePrediction appends a prediction to the journal. A missing ID or
// creation time is filled in.
func (p *PgSQL) StorePrediction(ctx context.Context, prediction domain.Prediction) (*domain.Prediction, error) {
	var row PgPrediction
	if err := row.FromDomain(prediction); err != nil {
		return nil, err
	}

	var stored PgPrediction
	if _, err := p.Builder.Insert(predictionsTable).
		Rows(row).
		Returning(&PgPrediction{}).
		Executor().ScanStructContext(ctx, &stored); err != nil {
		return nil, fmt.Errorf("could not store prediction into pg: %w", err)
	}

	return stored.ToDomain()
}

// RecentPredictions returns predictions positioned after the optional cursor.
// Results are ordered by created_at DESC, id DESC.
func (p *PgSQL) RecentPredictions(ctx context.Context, cursor *storage.Cursor, limit uint) (storage.PredictionPage, error) {
	var w []goqu.Expression
	if cursor != nil {
		w = append(w, goqu.Or(
			goqu.I("created_at").Lt(cursor.CreatedAt),
			goqu.And(
				goqu.I("created_at").Eq(cursor.CreatedAt),
				goqu.I("id").Lt(uuid.UUID(cursor.ID)),
			),
		))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(predictionsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgPrediction
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.PredictionPage{}, fmt.Errorf("could not fetch predictions from pg: %w", err)
	}

	var nextCursor *storage.Cursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		if limit > 0 {
			last := rows[len(rows)-1]
			nextCursor = &storage.Cursor{CreatedAt: last.CreatedAt, ID: domain.PredictionID(last.ID)}
		}
	}

	predictions, err := pgPredictionsToDomain(rows)
	if err != nil {
		return storage.PredictionPage{}, err
	}

	return storage.PredictionPage{
		Predictions: predictions,
		NextCursor:  nextCursor,
	}, nil
}

// PredictionByID returns a journaled prediction, or nil when not found.
func (p *PgSQL) PredictionByID(ctx context.Context, id domain.PredictionID) (*domain.Prediction, error) {
	var row PgPrediction
	found, err := p.Builder.From(predictionsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch prediction by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
