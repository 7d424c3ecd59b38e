package postgres_test

import (
	"context"
	"testing"
	"time"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testPrediction(label domain.Label, createdAt time.Time) domain.Prediction {
	return domain.Prediction{
		ID:                   domain.PredictionID(uuid.New()),
		Source:               domain.SourceAPI,
		Model:                "breast_cancer_logreg",
		Label:                label,
		BenignProbability:    0.25,
		MalignantProbability: 0.75,
		Values:               domain.MalignantSample.Values,
		CreatedAt:            createdAt,
	}
}

func TestPgSQL_Predictions(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var stored []*domain.Prediction
	for i := range 5 {
		p, err := pgSQL.StorePrediction(ctx, testPrediction(domain.LabelMalignant, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		stored = append(stored, p)
	}

	t.Run("store round trips values", func(t *testing.T) {
		got, err := pgSQL.PredictionByID(ctx, stored[0].ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, stored[0].ID, got.ID)
		require.Equal(t, domain.LabelMalignant, got.Label)
		require.Equal(t, domain.SourceAPI, got.Source)
		require.Equal(t, domain.MalignantSample.Values, got.Values)
		require.InDelta(t, 0.75, got.MalignantProbability, 1e-12)
		require.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("unknown id", func(t *testing.T) {
		got, err := pgSQL.PredictionByID(ctx, domain.PredictionID(uuid.New()))
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		page, err := pgSQL.RecentPredictions(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, page.Predictions, 2)
		require.Equal(t, stored[4].ID, page.Predictions[0].ID)
		require.Equal(t, stored[3].ID, page.Predictions[1].ID)
		require.NotNil(t, page.NextCursor)

		page, err = pgSQL.RecentPredictions(ctx, page.NextCursor, 10)
		require.NoError(t, err)
		require.Len(t, page.Predictions, 3)
		require.Equal(t, stored[0].ID, page.Predictions[2].ID)
		require.Nil(t, page.NextCursor)
	})
}

func TestPgSQL_StorePrediction_FillsDefaults(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	p := testPrediction(domain.LabelBenign, time.Time{})
	p.ID = domain.PredictionID(uuid.Nil)

	got, err := pgSQL.StorePrediction(context.Background(), p)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, uuid.UUID(got.ID))
	require.False(t, got.CreatedAt.IsZero())
	require.Equal(t, domain.LabelBenign, got.Label)
}

func TestPgSQL_RecentPredictions_SharedTimestamp(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	want := make(map[domain.PredictionID]bool)
	for range 5 {
		p, err := pgSQL.StorePrediction(ctx, testPrediction(domain.LabelBenign, createdAt))
		require.NoError(t, err)
		want[p.ID] = true
	}

	got := make(map[domain.PredictionID]bool)
	var cursor *storage.Cursor
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "pagination does not terminate")

		page, err := pgSQL.RecentPredictions(ctx, cursor, 2)
		require.NoError(t, err)
		for _, p := range page.Predictions {
			require.False(t, got[p.ID], "prediction %s returned twice", p.ID)
			got[p.ID] = true
		}
		if page.NextCursor == nil {
			break
		}

		parsed, err := storage.ParseCursor(page.NextCursor.String())
		require.NoError(t, err)
		require.True(t, createdAt.Equal(parsed.CreatedAt))
		cursor = &parsed
	}

	require.Equal(t, want, got)
}
