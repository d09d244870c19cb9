package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "socialflow"

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	publishAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publisher",
			Name:      "attempts_total",
			Help:      "Publishing adapter calls by platform type and outcome.",
		},
		[]string{"platform", "outcome"},
	)

	publishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "publisher",
			Name:      "duration_seconds",
			Help:      "Duration of publishing adapter calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"platform"},
	)

	scheduleFires = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "fires_total",
			Help:      "Schedule firings by outcome (completed, failed, skipped, contended).",
		},
		[]string{"outcome"},
	)

	sweepDue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "due_schedules",
			Help:      "Due schedules found by the last sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		publishAttempts,
		publishDuration,
		scheduleFires,
		sweepDue,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func HTTPStarted() { httpInFlight.Inc() }

func HTTPFinished(method, route string, status int, duration time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPublish counts one adapter call. outcome is "success", "failure" or "timeout".
func RecordPublish(platform, outcome string, duration time.Duration) {
	publishAttempts.WithLabelValues(platform, outcome).Inc()
	publishDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func RecordFire(outcome string) {
	scheduleFires.WithLabelValues(outcome).Inc()
}

func SetDueSchedules(n int) {
	sweepDue.Set(float64(n))
}
