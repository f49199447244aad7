package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors of the service. A single instance
// is created in the DI container and shared by all layers.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	QuoteCalculations      *prometheus.CounterVec
	TariffFallbacks        prometheus.Counter
	ClassificationFailures *prometheus.CounterVec
	GatewayRetries         *prometheus.CounterVec
	RateLimitExceeded      prometheus.Counter

	QuoteRequestEvents *prometheus.CounterVec
}

// New registers all collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		QuoteCalculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_calculations_total",
			Help: "Quote calculations by outcome.",
		}, []string{"outcome"}),
		TariffFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "tariff_fallback_total",
			Help: "Calculations that used default tariffs because the store had none.",
		}),
		ClassificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_failures_total",
			Help: "Classification attempts that failed, by provider.",
		}, []string{"provider"}),
		GatewayRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_retries_total",
			Help: "Retried calls to external collaborators, by gateway.",
		}, []string{"gateway"}),
		RateLimitExceeded: f.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		QuoteRequestEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_request_events_total",
			Help: "Quote-request events consumed from Kafka, by outcome.",
		}, []string{"outcome"}),
	}
}
