package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monitoring pipeline.
type Metrics struct {
	ReadingsIngested *prometheus.CounterVec // labels: source
	DetectionsTotal  *prometheus.CounterVec // labels: type
	AlertsGenerated  *prometheus.CounterVec // labels: severity
	AlertsPublished  prometheus.Counter
	MonitorRunning   prometheus.Gauge

	// Per-cycle pipeline metrics.
	CycleDuration prometheus.Histogram
	FusedBatch    prometheus.Histogram

	// External source metrics.
	SourceFetches  *prometheus.CounterVec   // labels: source, outcome={success,error,fallback}
	SourceDuration *prometheus.HistogramVec // labels: source

	// Alert cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReadingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "readings_ingested_total",
			Help:      "Total unified readings ingested, by source.",
		}, []string{"source"}),
		DetectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "detections_total",
			Help:      "Total threat detections, by detection type.",
		}, []string{"type"}),
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "alerts_generated_total",
			Help:      "Total alerts generated after correlation, by severity.",
		}, []string{"severity"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "alerts_published_total",
			Help:      "Total alerts published to the alert topic.",
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firesight",
			Name:      "monitor_running",
			Help:      "1 when the monitoring loop is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "firesight",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete ingest-detect-alert cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FusedBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "firesight",
			Name:      "fused_batch_size",
			Help:      "Number of readings per fused batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "source_fetches_total",
			Help:      "External source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "firesight",
			Name:      "source_fetch_duration_seconds",
			Help:      "External source fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firesight",
			Name:      "cache_lookups_total",
			Help:      "Alert cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.ReadingsIngested,
		m.DetectionsTotal,
		m.AlertsGenerated,
		m.AlertsPublished,
		m.MonitorRunning,
		m.CycleDuration,
		m.FusedBatch,
		m.SourceFetches,
		m.SourceDuration,
		m.CacheLookups,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReadingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firesight", Name: "readings_ingested_total"}, []string{"source"}),
		DetectionsTotal:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firesight", Name: "detections_total"}, []string{"type"}),
		AlertsGenerated:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firesight", Name: "alerts_generated_total"}, []string{"severity"}),
		AlertsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firesight", Name: "alerts_published_total"}),
		MonitorRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "firesight", Name: "monitor_running"}),
		CycleDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "firesight", Name: "cycle_duration_seconds"}),
		FusedBatch:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "firesight", Name: "fused_batch_size"}),
		SourceFetches:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firesight", Name: "source_fetches_total"}, []string{"source", "outcome"}),
		SourceDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "firesight", Name: "source_fetch_duration_seconds"}, []string{"source"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firesight", Name: "cache_lookups_total"}, []string{"result"}),
	}
}
