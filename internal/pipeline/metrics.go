package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("whatif.pipeline")

var (
	// whatIfRequests counts answered what-if questions by outcome status.
	whatIfRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whatif_requests_total",
		Help: "Total what-if requests by result status",
	}, []string{"status"})

	// oracleCallDuration tracks oracle latency per operation.
	oracleCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oracle_call_duration_seconds",
		Help:    "Oracle call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	}, []string{"operation"})

	// translationErrors counts requests rejected before reaching the oracle.
	translationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_errors_total",
		Help: "Total what-if requests rejected by translation or validation",
	}, []string{"code"})

	// runsTotal counts primary solves by status.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimize_runs_total",
		Help: "Total primary solves by status",
	}, []string{"status"})
)
