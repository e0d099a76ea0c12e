package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldwatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coldwatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coldwatch_http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "endpoint"},
	)

	// Ingest metrics
	ReadingsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldwatch_readings_accepted_total",
			Help: "Total number of readings stored",
		},
		[]string{"fridge_no"},
	)

	ReadingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldwatch_readings_rejected_total",
			Help: "Total number of readings rejected",
		},
		[]string{"reason"}, // reason: invalid, duplicate, storage
	)

	// Monitor metrics
	MonitorSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coldwatch_monitor_sweeps_total",
			Help: "Total number of monitor sweeps executed",
		},
	)

	MonitorSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldwatch_monitor_sweep_duration_seconds",
			Help:    "Time taken by a monitor sweep",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	MonitorReadingsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coldwatch_monitor_readings_evaluated_total",
			Help: "Total number of readings evaluated against thresholds",
		},
	)

	MonitorBreachesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coldwatch_monitor_breaches_total",
			Help: "Total number of threshold breaches detected",
		},
	)

	// Webhook delivery metrics
	WebhookNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldwatch_webhook_notifications_total",
			Help: "Total number of webhook notification attempts",
		},
		[]string{"status"}, // status: success, failed
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldwatch_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
