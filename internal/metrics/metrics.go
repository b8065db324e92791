package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes counters for API requests, path fallbacks and exports,
// a histogram for request durations and a gauge for the API health status.
type Metrics struct {
	APIRequests        *prometheus.CounterVec   // Counter for API requests by method and status
	APIRequestDuration *prometheus.HistogramVec // Histogram for API request durations
	PathFallbacks      *prometheus.CounterVec   // Counter for retries on the prefixed path
	HealthStatus       *prometheus.GaugeVec     // 1 for the current health status, 0 for the others
	Exports            *prometheus.CounterVec   // Counter for produced exports
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
// It initializes counters, histograms, and gauges for tracking API traffic,
// fallback retries, health transitions and exports.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "zynor_api_requests_total",
			Help: "Total number of requests sent to the API",
		}, []string{"method", "status"}), // status: 200, 404, network_error
		APIRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zynor_api_request_duration_seconds",
			Help:    "Duration of API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		PathFallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "zynor_api_path_fallbacks_total",
			Help: "Requests retried on the prefixed path after a 404",
		}, []string{"resource"}), // resource: customers, jobs, technicians
		HealthStatus: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "zynor_api_health_status",
			Help: "Current API health status, 1 for the active status",
		}, []string{"status"}), // status: checking, up, down
		Exports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "zynor_exports_total",
			Help: "Total number of produced exports",
		}, []string{"format"}), // format: csv, xlsx
	}
}
