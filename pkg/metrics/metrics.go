// Package metrics declares the instruments exported by TumoTrack. Prediction
// instruments go through the OpenTelemetry meter API; HTTP and readiness
// collectors are registered on a Prometheus registerer directly.
package metrics

import (
	"context"
	"fmt"
	"time"
	"tumotrack/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Namespace prefixes every metric name.
const Namespace = "tumotrack"

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Predictions records inference outcomes.
type Predictions struct {
	total     metric.Int64Counter
	cacheHits metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewPredictions creates the prediction instruments on meter.
func NewPredictions(meter metric.Meter) (*Predictions, error) {
	total, err := meter.Int64Counter(Namespace+"_predictions_total",
		metric.WithDescription("Number of predictions served, by label and source."))
	if err != nil {
		return nil, fmt.Errorf("could not create predictions counter: %w", err)
	}

	cacheHits, err := meter.Int64Counter(Namespace+"_prediction_cache_hits_total",
		metric.WithDescription("Number of predictions served from the result cache."))
	if err != nil {
		return nil, fmt.Errorf("could not create cache hits counter: %w", err)
	}

	duration, err := meter.Float64Histogram(Namespace+"_prediction_duration_seconds",
		metric.WithDescription("Time spent scaling and classifying a record."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create prediction duration histogram: %w", err)
	}

	return &Predictions{total: total, cacheHits: cacheHits, duration: duration}, nil
}

// Record adds one served prediction.
func (p *Predictions) Record(ctx context.Context, pred *domain.Prediction, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("label", pred.Label.String()),
		attribute.String("source", string(pred.Source)),
	)
	p.total.Add(ctx, 1, attrs)
	p.duration.Record(ctx, elapsed.Seconds(), attrs)
	if pred.Cached {
		p.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(pred.Source))))
	}
}

// NewHTTPDuration registers the request latency histogram used by the access log middleware.
func NewHTTPDuration(reg prometheus.Registerer) *prometheus.HistogramVec {
	return promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by method and status code.",
		Buckets:   DefaultBuckets,
	}, []string{"method", "code"})
}

// RegisterModelReady exports 1 while ready reports true and 0 otherwise.
func RegisterModelReady(reg prometheus.Registerer, ready func() bool) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "model_ready",
		Help:      "Whether the scaler and classifier artifacts are loaded.",
	}, func() float64 {
		if ready() {
			return 1
		}

		return 0
	})
}
