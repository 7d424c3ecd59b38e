package predictor

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"tumotrack/internal/config"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/logger"
	"tumotrack/pkg/metrics"
	"tumotrack/pkg/model"
	"tumotrack/pkg/serrors"
	"tumotrack/pkg/storage"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "tumotrack/internal/predictor"

// Loader produces the pipeline used for inference.
type Loader func() (*model.Pipeline, error)

// Options configure how the pipeline is loaded and how results are cached.
type Options struct {
	// Loader builds the pipeline. It is called once by New.
	Loader Loader
	// CacheSize is the number of results kept in memory. Zero disables caching.
	CacheSize int
}

// NewOptions constructs an Options value that loads the artifacts named in the
// application config for the full feature catalogue.
func NewOptions(cfg *config.Config) Options {
	scalerPath, classifierPath := cfg.Model.ScalerPath, cfg.Model.ClassifierPath

	return Options{
		Loader: func() (*model.Pipeline, error) {
			return model.Load(scalerPath, classifierPath, domain.Features())
		},
		CacheSize: cfg.Model.CacheSize,
	}
}

// ToyOptions returns options for the fixed toy pipeline.
func ToyOptions() Options {
	return Options{
		Loader: func() (*model.Pipeline, error) { return model.Toy(), nil },
	}
}

// Deps are the collaborators of a predictor. Nil fields fall back to the
// global OpenTelemetry providers and a disabled journal.
type Deps struct {
	// Journal records predictions. Nil disables the journal.
	Journal storage.PredictionStorage
	Meter   metric.Meter
	Tracer  trace.Tracer
	// Now returns the current time.
	Now func() time.Time
}

type predictor struct {
	pipeline *model.Pipeline
	loadErr  error
	features []domain.Feature

	cache   *lru.Cache[string, model.Output]
	journal storage.PredictionStorage

	metrics *metrics.Predictions
	tracer  trace.Tracer
	now     func() time.Time
}

// New loads the pipeline and returns a predictor. A load failure does not
// fail New: the failure is logged once and the predictor reports it from
// Ready and Predict. The returned error covers instrument and cache setup only.
func New(ctx context.Context, options Options, deps Deps) (Predictor, error) {
	if deps.Meter == nil {
		deps.Meter = otel.Meter(instrumentationName)
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer(instrumentationName)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	m, err := metrics.NewPredictions(deps.Meter)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	p := &predictor{
		journal: deps.Journal,
		metrics: m,
		tracer:  deps.Tracer,
		now:     deps.Now,
	}

	if options.CacheSize > 0 {
		p.cache, err = lru.New[string, model.Output](options.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("could not create result cache: %w", err)
		}
	}

	if options.Loader == nil {
		p.loadErr = serrors.With(serrors.ErrUnavailable, "no model loader configured")
	} else if p.pipeline, err = options.Loader(); err != nil {
		p.loadErr = serrors.Wrap(serrors.ErrUnavailable, err, "model files not found")
	}

	if p.loadErr != nil {
		logger.Error(ctx, "could not load model artifacts", zap.Error(p.loadErr))
	} else {
		p.features = p.pipeline.Features
		logger.Info(ctx, "model loaded",
			zap.String("model", p.pipeline.Name),
			zap.Int("features", len(p.features)),
			zap.Bool("journal", p.journal != nil))
	}

	return p, nil
}

func (p *predictor) Ready() error {
	return p.loadErr
}

func (p *predictor) Model() string {
	if p.pipeline == nil {
		return ""
	}

	return p.pipeline.Name
}

func (p *predictor) Features() []domain.Feature {
	return p.features
}

// Predict runs the record through the pipeline. Successful predictions are
// appended to the journal when one is configured; a failed append is logged
// and does not fail the prediction.
func (p *predictor) Predict(ctx context.Context,
	source domain.Source,
	record domain.Record) (*domain.Prediction, error) {
	ctx, span := p.tracer.Start(ctx, "predictor.Predict", trace.WithAttributes(
		attribute.String("source", string(source)),
	))
	defer span.End()

	pred, err := p.predict(ctx, source, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}
	span.SetAttributes(
		attribute.String("label", pred.Label.String()),
		attribute.Bool("cached", pred.Cached),
	)

	return pred, nil
}

func (p *predictor) predict(ctx context.Context,
	source domain.Source,
	record domain.Record) (*domain.Prediction, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if record.Len() != len(p.features) {
		return nil, serrors.With(serrors.ErrBadRequest, "expected %d values, got %d", len(p.features), record.Len())
	}

	start := time.Now()
	values := record.Values()
	key := cacheKey(values)

	out, cached := p.lookup(key)
	if !cached {
		var err error
		out, err = p.pipeline.Predict(values)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not classify record")
		}
		if p.cache != nil {
			p.cache.Add(key, out)
		}
	}

	pred := &domain.Prediction{
		ID:                   domain.PredictionID(uuid.New()),
		Source:               source,
		Model:                p.pipeline.Name,
		Label:                out.Label,
		BenignProbability:    out.Probabilities.Of(domain.LabelBenign),
		MalignantProbability: out.Probabilities.Of(domain.LabelMalignant),
		Values:               values,
		Cached:               cached,
		CreatedAt:            p.now(),
	}
	p.metrics.Record(ctx, pred, time.Since(start))

	logger.Debug(ctx, "prediction served",
		zap.String("id", pred.ID.String()),
		zap.String("source", string(source)),
		zap.Stringer("label", pred.Label),
		zap.Float64("confidence", pred.Confidence()),
		zap.Bool("cached", cached))

	if p.journal != nil {
		if _, err := p.journal.StorePrediction(ctx, *pred); err != nil {
			logger.Warn(ctx, "could not record prediction in journal",
				zap.String("id", pred.ID.String()), zap.Error(err))
		}
	}

	return pred, nil
}

func (p *predictor) lookup(key string) (model.Output, bool) {
	if p.cache == nil {
		return model.Output{}, false
	}

	return p.cache.Get(key)
}

// Recent returns a page of journaled predictions. The cursor is the opaque
// value returned for the previous page.
func (p *predictor) Recent(ctx context.Context, cursor string, limit uint) ([]domain.Prediction, string, error) {
	if p.journal == nil {
		return nil, "", serrors.With(serrors.ErrUnavailable, "prediction journal is disabled")
	}

	var after *storage.Cursor
	if cursor != "" {
		c, err := storage.ParseCursor(cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		after = &c
	}

	page, err := p.journal.RecentPredictions(ctx, after, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get recent predictions: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.String()
	}

	return page.Predictions, next, nil
}

// Get fetches a single journaled prediction. It returns a not-found error
// when no matching prediction exists.
func (p *predictor) Get(ctx context.Context, id domain.PredictionID) (*domain.Prediction, error) {
	if p.journal == nil {
		return nil, serrors.With(serrors.ErrUnavailable, "prediction journal is disabled")
	}

	res, err := p.journal.PredictionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get prediction: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "prediction not found")
	}

	return res, nil
}

// cacheKey encodes the exact bit patterns of values.
func cacheKey(values []float64) string {
	var b strings.Builder
	b.Grow(len(values) * 17)
	for _, v := range values {
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		b.WriteByte(':')
	}

	return b.String()
}
