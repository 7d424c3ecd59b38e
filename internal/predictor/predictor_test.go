package predictor_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
	"tumotrack/internal/config"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/model"
	"tumotrack/pkg/serrors"
	"tumotrack/pkg/storage"
	mockstorage "tumotrack/pkg/storage/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

func testOptions(cacheSize int) predictor.Options {
	cfg := &config.Config{}
	cfg.Model.ScalerPath = filepath.Join("..", "..", "models", "scaler.json")
	cfg.Model.ClassifierPath = filepath.Join("..", "..", "models", "breast_cancer.json")
	cfg.Model.CacheSize = cacheSize

	return predictor.NewOptions(cfg)
}

func testDeps(journal storage.PredictionStorage) predictor.Deps {
	return predictor.Deps{
		Journal: journal,
		Meter:   noop.NewMeterProvider().Meter("test"),
		Tracer:  tracenoop.NewTracerProvider().Tracer("test"),
		Now:     func() time.Time { return fixedNow },
	}
}

func newTestPredictor(t *testing.T, cacheSize int, journal storage.PredictionStorage) predictor.Predictor {
	t.Helper()

	p, err := predictor.New(context.Background(), testOptions(cacheSize), testDeps(journal))
	require.NoError(t, err)
	require.NoError(t, p.Ready())

	return p
}

func TestPredictor_Predict_Samples(t *testing.T) {
	p := newTestPredictor(t, 0, nil)
	require.Equal(t, "breast_cancer_logreg", p.Model())
	require.Len(t, p.Features(), 30)

	benign, err := p.Predict(context.Background(), domain.SourceWeb, domain.BenignSample.Record())
	require.NoError(t, err)
	require.Equal(t, domain.LabelBenign, benign.Label)
	require.InDelta(t, 0.9435239327705033, benign.BenignProbability, 1e-6)
	require.InDelta(t, 1, benign.BenignProbability+benign.MalignantProbability, 1e-9)
	require.Equal(t, domain.SourceWeb, benign.Source)
	require.Equal(t, fixedNow, benign.CreatedAt)
	require.False(t, benign.Cached)

	malignant, err := p.Predict(context.Background(), domain.SourceDesktop, domain.MalignantSample.Record())
	require.NoError(t, err)
	require.Equal(t, domain.LabelMalignant, malignant.Label)
	require.Greater(t, malignant.MalignantProbability, 0.99)
	require.NotEqual(t, benign.ID, malignant.ID)
}

func TestPredictor_Predict_Deterministic(t *testing.T) {
	p := newTestPredictor(t, 8, nil)
	record := domain.MalignantSample.Record()

	first, err := p.Predict(context.Background(), domain.SourceAPI, record)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := p.Predict(context.Background(), domain.SourceAPI, record)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Label, second.Label)
	require.InDelta(t, first.MalignantProbability, second.MalignantProbability, 0)
	require.NotEqual(t, first.ID, second.ID)
}

func TestPredictor_Predict_WrongLength(t *testing.T) {
	p := newTestPredictor(t, 0, nil)
	record, err := domain.NewRecord(domain.ToyFeatures(), []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), domain.SourceAPI, record)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestPredictor_LoadFailure(t *testing.T) {
	cfg := &config.Config{}
	cfg.Model.ScalerPath = filepath.Join(t.TempDir(), "scaler.json")
	cfg.Model.ClassifierPath = filepath.Join(t.TempDir(), "classifier.json")

	p, err := predictor.New(context.Background(), predictor.NewOptions(cfg), testDeps(nil))
	require.NoError(t, err)
	require.ErrorIs(t, p.Ready(), serrors.ErrUnavailable)
	require.Empty(t, p.Model())
	require.Empty(t, p.Features())

	_, err = p.Predict(context.Background(), domain.SourceWeb, domain.BenignSample.Record())
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestPredictor_Toy(t *testing.T) {
	p, err := predictor.New(context.Background(), predictor.ToyOptions(), testDeps(nil))
	require.NoError(t, err)
	require.NoError(t, p.Ready())
	require.Equal(t, model.KindSumThreshold, p.Model())

	record, err := domain.NewRecord(domain.ToyFeatures(), []float64{5, 5, 5, 0.5, 0})
	require.NoError(t, err)

	pred, err := p.Predict(context.Background(), domain.SourceToy, record)
	require.NoError(t, err)
	require.Equal(t, domain.LabelMalignant, pred.Label)
	require.InDelta(t, 0.87, pred.Confidence(), 1e-12)
}

func TestPredictor_Journal(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := mockstorage.NewMockPredictionStorage(ctrl)
	p := newTestPredictor(t, 0, journal)
	ctx := context.Background()

	t.Run("predict appends", func(t *testing.T) {
		journal.EXPECT().StorePrediction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, pred domain.Prediction) (*domain.Prediction, error) {
				require.Equal(t, domain.SourceCLI, pred.Source)
				require.Equal(t, domain.MalignantSample.Values, pred.Values)

				return &pred, nil
			})

		_, err := p.Predict(ctx, domain.SourceCLI, domain.MalignantSample.Record())
		require.NoError(t, err)
	})

	t.Run("append failure does not fail predict", func(t *testing.T) {
		journal.EXPECT().StorePrediction(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		pred, err := p.Predict(ctx, domain.SourceWeb, domain.BenignSample.Record())
		require.NoError(t, err)
		require.Equal(t, domain.LabelBenign, pred.Label)
	})

	t.Run("recent first page", func(t *testing.T) {
		journal.EXPECT().RecentPredictions(gomock.Any(), (*storage.Cursor)(nil), uint(2)).Return(storage.PredictionPage{
			Predictions: []domain.Prediction{{Label: domain.LabelBenign}},
		}, nil)

		preds, cursor, err := p.Recent(ctx, "", 2)
		require.NoError(t, err)
		require.Len(t, preds, 1)
		require.Empty(t, cursor)
	})

	t.Run("recent with cursor", func(t *testing.T) {
		current := storage.Cursor{CreatedAt: fixedNow, ID: domain.PredictionID(uuid.New())}
		next := storage.Cursor{CreatedAt: fixedNow, ID: domain.PredictionID(uuid.New())}
		journal.EXPECT().RecentPredictions(gomock.Any(), &current, uint(2)).Return(storage.PredictionPage{
			Predictions: []domain.Prediction{{Label: domain.LabelBenign}, {Label: domain.LabelMalignant}},
			NextCursor:  &next,
		}, nil)

		preds, cursor, err := p.Recent(ctx, current.String(), 2)
		require.NoError(t, err)
		require.Len(t, preds, 2)
		require.Equal(t, next.String(), cursor)
	})

	t.Run("recent with invalid cursor", func(t *testing.T) {
		for _, c := range []string{"yesterday", fixedNow.Format(time.RFC3339Nano), "2025-03-01T12:00:00Z_nope"} {
			_, _, err := p.Recent(ctx, c, 2)
			require.ErrorIs(t, err, serrors.ErrBadRequest, c)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		id := domain.PredictionID(uuid.New())
		journal.EXPECT().PredictionByID(gomock.Any(), id).Return(nil, nil)

		_, err := p.Get(ctx, id)
		require.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("get found", func(t *testing.T) {
		id := domain.PredictionID(uuid.New())
		journal.EXPECT().PredictionByID(gomock.Any(), id).Return(&domain.Prediction{ID: id}, nil)

		got, err := p.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, id, got.ID)
	})
}

func TestPredictor_JournalDisabled(t *testing.T) {
	p := newTestPredictor(t, 0, nil)

	_, _, err := p.Recent(context.Background(), "", 10)
	require.ErrorIs(t, err, serrors.ErrUnavailable)

	_, err = p.Get(context.Background(), domain.PredictionID(uuid.New()))
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}
