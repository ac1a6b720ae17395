package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream API label values.
const (
	APIOverpass = "overpass"
	APIReverse  = "reverse"
	APILocation = "locations"
)

// Shop query outcomes.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusFailure = "failure"
)

type Metrics struct {
	ShopQueries     *prometheus.CounterVec
	UpstreamErrors  *prometheus.CounterVec
	UpstreamSeconds *prometheus.HistogramVec
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ShopQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "florist_shop_queries_total",
			Help: "Total number of florist shop queries by outcome.",
		}, []string{"status"}),
		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "florist_upstream_api_errors_total",
			Help: "Total number of errors received from upstream APIs.",
		}, []string{"api"}),
		UpstreamSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "florist_upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"api"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "florist_address_active_workers",
			Help: "Current number of workers resolving shop addresses.",
		}),
	}
}
