package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for ingestion and the query API.
type Metrics struct {
	ReadingsIngested  prometheus.Counter
	IngestErrors      *prometheus.CounterVec // labels: reason={decode,invalid,lookup,store}
	EquipmentFailures prometheus.Counter
	AccessDenied      *prometheus.CounterVec // labels: reason={permission,customer_scope,rate_limit,token}
	QueryDuration     *prometheus.HistogramVec
	AlertsSent        prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldchain",
			Name:      "readings_ingested_total",
			Help:      "Temperature readings stored from the ingest topic.",
		}),
		IngestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coldchain",
			Name:      "ingest_errors_total",
			Help:      "Ingest messages rejected, by reason.",
		}, []string{"reason"}),
		EquipmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldchain",
			Name:      "equipment_failures_total",
			Help:      "Ingested readings that indicate equipment failure.",
		}),
		AccessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coldchain",
			Name:      "access_denied_total",
			Help:      "Requests refused by access control, by reason.",
		}, []string{"reason"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coldchain",
			Name:      "query_duration_seconds",
			Help:      "Repository query latency by operation.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldchain",
			Name:      "alerts_sent_total",
			Help:      "Equipment and maintenance alerts published.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsIngested,
		m.IngestErrors,
		m.EquipmentFailures,
		m.AccessDenied,
		m.QueryDuration,
		m.AlertsSent,
	)
	return m
}

// NewMetricsForTesting returns unregistered metrics so tests can create many.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
