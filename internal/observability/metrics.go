package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lore"

var (
	// Registry holds the application's collectors; served on /metrics.
	Registry = prometheus.NewRegistry()

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		},
		[]string{"method", "route", "status"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route"},
	)

	apiInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		},
	)

	aiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "Inference API calls by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	aiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "Inference API latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"endpoint"},
	)

	activityDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "activity_duration_seconds",
			Help:      "Temporal activity duration by activity and status.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"activity", "status"},
	)

	recapRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recap",
			Name:      "runs_total",
			Help:      "Finished recap generation runs by outcome (created, skipped, failed).",
		},
		[]string{"outcome"},
	)

	sweepPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "pages_total",
			Help:      "Eligibility pages processed.",
		},
	)

	sweepTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "triggers_total",
			Help:      "Per-user recap triggers by result (started, already_started, leased, failed).",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		apiRequests,
		apiLatency,
		apiInflight,
		aiRequests,
		aiLatency,
		activityDuration,
		recapRuns,
		sweepPages,
		sweepTriggers,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveAPI(method, route, status string, dur time.Duration) {
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	apiRequests.WithLabelValues(method, route, status).Inc()
	apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func APIInflightInc() { apiInflight.Inc() }
func APIInflightDec() { apiInflight.Dec() }

func ObserveAIRequest(endpoint, status string, dur time.Duration) {
	aiRequests.WithLabelValues(endpoint, status).Inc()
	aiLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveActivity(activity, status string, dur time.Duration) {
	if status == "" {
		status = "unknown"
	}
	activityDuration.WithLabelValues(activity, status).Observe(dur.Seconds())
}

func IncRecapRun(outcome string) {
	recapRuns.WithLabelValues(outcome).Inc()
}

func IncSweepPage() { sweepPages.Inc() }

func AddSweepTriggers(result string, n int) {
	if n <= 0 {
		return
	}
	sweepTriggers.WithLabelValues(result).Add(float64(n))
}
