package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queuay_runs_received_total",
		Help: "Run tasks pulled off the queue.",
	})
	runsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queuay_runs_succeeded_total",
		Help: "Run tasks processed to a terminal state without a handler error.",
	})
	runsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queuay_runs_failed_total",
		Help: "Run tasks that failed, by reason.",
	}, []string{"reason"})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "queuay_run_duration_seconds",
		Help:    "Wall time per run task.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
