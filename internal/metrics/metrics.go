package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tnuos_requests_total",
			Help: "Total number of HTTP requests per path",
		},
		[]string{"path"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tnuos_request_duration_seconds",
			Help:    "Request duration in seconds per path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tnuos_request_errors_total",
			Help: "Total number of error responses per path and status code",
		},
		[]string{"path", "code"},
	)

	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tnuos_computations_total",
			Help: "Total number of engine computations per operation",
		},
		[]string{"operation"},
	)

	ComputationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tnuos_computation_duration_seconds",
			Help:    "Engine computation duration in seconds per operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	SitesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tnuos_sites_processed_total",
			Help: "Total number of sites run through the cost calculator",
		},
	)

	TariffRowsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tnuos_tariff_rows_loaded",
			Help: "Deduplicated tariff rows held in memory per table",
		},
		[]string{"table"},
	)
)

// ObserveComputation records one engine computation over a portfolio.
func ObserveComputation(operation string, startedAt time.Time, sites int) {
	ComputationsTotal.WithLabelValues(operation).Inc()
	ComputationDurationSeconds.WithLabelValues(operation).Observe(time.Since(startedAt).Seconds())
	SitesProcessedTotal.Add(float64(sites))
}
