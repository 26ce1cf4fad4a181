package conductor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/baystack/internal/platform/heat"
)

var (
	// Poll metrics
	pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baystack",
			Subsystem: "conductor",
			Name:      "polls_total",
			Help:      "Total number of stack polls by observed phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	// Lifecycle operation metrics
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baystack",
			Subsystem: "conductor",
			Name:      "operations_total",
			Help:      "Total number of bay lifecycle operations by verb and result",
		},
		[]string{"operation", "result"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "baystack",
			Subsystem: "conductor",
			Name:      "operation_duration_seconds",
			Help:      "Duration of bay lifecycle operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		},
		[]string{"operation"},
	)

	activeOperations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "baystack",
			Subsystem: "conductor",
			Name:      "active_operations",
			Help:      "Number of lifecycle operations currently running",
		},
	)

	// Heat API metrics
	heatAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baystack",
			Subsystem: "heat",
			Name:      "api_calls_total",
			Help:      "Total number of Heat API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	heatAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "baystack",
			Subsystem: "heat",
			Name:      "api_latency_seconds",
			Help:      "Latency of Heat API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms to ~13s
		},
		[]string{"operation"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		pollsTotal,
		operationsTotal,
		operationDuration,
		activeOperations,
		heatAPICallsTotal,
		heatAPILatency,
	)
}

func recordPollMetric(phase, outcome string) {
	pollsTotal.WithLabelValues(phase, outcome).Inc()
}

func recordOperationMetric(operation, result string, duration float64) {
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration)
}

func recordHeatAPICallMetric(operation, result string, latency float64) {
	heatAPICallsTotal.WithLabelValues(operation, result).Inc()
	heatAPILatency.WithLabelValues(operation).Observe(latency)
}

// HeatCallObserver returns a heat.CallObserver that records API call
// counts and latency.
func HeatCallObserver() heat.CallObserver {
	return func(operation string, d time.Duration, err error) {
		recordHeatAPICallMetric(operation, resultLabel(err), d.Seconds())
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (h *Handler) recordOperation(operation, result string, start time.Time) {
	if h.enableMetrics {
		recordOperationMetric(operation, result, time.Since(start).Seconds())
	}
}

func (p *Poller) recordPoll(phase string, outcome Outcome) {
	if p.enableMetrics {
		recordPollMetric(phase, outcome.String())
	}
}
