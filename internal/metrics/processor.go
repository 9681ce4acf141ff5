package metrics

import "github.com/prometheus/client_golang/prometheus"

// Processor and ingest Prometheus metrics.
var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geofield",
			Name:      "documents_total",
			Help:      "Documents seen by the processor, by decision",
		},
		[]string{"decision"}, // "continue" / "suppress" / "filtered"
	)

	EnrichmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geofield",
			Name:      "enrichment_total",
			Help:      "Field enrichment attempts, by outcome",
		},
		[]string{"outcome"},
	)

	LifecycleEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geofield",
			Name:      "lifecycle_events_total",
			Help:      "Lifecycle events delivered to the processor",
		},
		[]string{"event"},
	)

	IngestCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geofield",
			Name:      "ingest_commands_total",
			Help:      "Update commands read from the input stream",
		},
		[]string{"command"},
	)

	IngestRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "geofield",
			Name:      "ingest_run_duration_seconds",
			Help:      "Duration of a full ingest run in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

var procMetricsRegistered bool

// RegisterProcessorMetrics registers processor and ingest metrics. Must be called once from main.
func RegisterProcessorMetrics() {
	if procMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsTotal)
	prometheus.MustRegister(EnrichmentTotal)
	prometheus.MustRegister(LifecycleEventsTotal)
	prometheus.MustRegister(IngestCommandsTotal)
	prometheus.MustRegister(IngestRunDuration)
	procMetricsRegistered = true
}
