package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shoreline"

// Metrics holds the Prometheus collectors for prediction handling.
type Metrics struct {
	// Prediction runs.
	PredictionsTotal   *prometheus.CounterVec   // labels: model, outcome={ok,degraded}
	PredictionInFlight *prometheus.GaugeVec     // labels: model
	PredictionRejected *prometheus.CounterVec   // labels: model, reason={busy,unknown_model}
	BackendDuration    *prometheus.HistogramVec // labels: model
	FallbacksTotal     *prometheus.CounterVec   // labels: model, reason={transport,shape,mock_mode}

	// Result publishing.
	ResultsPublished prometheus.Counter
	PublishErrors    prometheus.Counter

	MockMode prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionInFlight,
		m.PredictionRejected,
		m.BackendDuration,
		m.FallbacksTotal,
		m.ResultsPublished,
		m.PublishErrors,
		m.MockMode,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Completed prediction runs by model and outcome.",
		}, []string{"model", "outcome"}),
		PredictionInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prediction_in_flight",
			Help:      "1 while a prediction for the model is loading.",
		}, []string{"model"}),
		PredictionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_rejected_total",
			Help:      "Prediction requests rejected before any backend call.",
		}, []string{"model", "reason"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Prediction backend request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"model"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Results served from mock data, by reason.",
		}, []string{"model", "reason"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_published_total",
			Help:      "Results written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a result.",
		}),
		MockMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mock_mode",
			Help:      "1 when the mock backend is selected, 0 otherwise.",
		}),
	}
}
