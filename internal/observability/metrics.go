// Package observability owns the Prometheus collectors of the service.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dot_goal_journal"

var (
	computations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "computations_total",
		Help:      "Derived views computed from a timeline and ledger, by view.",
	}, []string{"view"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Compute cache lookups, by result.",
	}, []string{"result"})

	workerJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_total",
		Help:      "Stats worker jobs, by outcome.",
	}, []string{"outcome"})

	ledgerWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent day record write.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(computations, cacheLookups, workerJobs, ledgerWriteGauge, httpRequests, httpDuration)
}

// View names used with RecordComputation.
const (
	ViewStats = "stats"
	ViewGrid  = "grid"
)

// Worker outcomes used with RecordWorkerJob.
const (
	JobWarmed  = "warmed"
	JobFailed  = "failed"
	JobDropped = "dropped"
)

func RecordComputation(view string) {
	computations.WithLabelValues(view).Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

func RecordWorkerJob(outcome string) {
	workerJobs.WithLabelValues(outcome).Inc()
}

// RecordLedgerWrite updates the ledger write watermark.
func RecordLedgerWrite(ts time.Time) {
	if ts.IsZero() {
		return
	}
	ledgerWriteGauge.Set(float64(ts.Unix()))
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
