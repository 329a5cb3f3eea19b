// Package monitor runs the periodic detection pipeline: ingest readings
// from every enabled source, fuse them, run the detection rules, and fan
// the resulting alerts out to the cache, the alert store, and Kafka.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/firesight-ai/firesight/internal/adapter/cache"
	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/firesight-ai/firesight/internal/ingest"
	"github.com/firesight-ai/firesight/internal/observability"
)

// Demo data file names resolved under the configured data directory.
const (
	satelliteFile = "satellite_data.csv"
	sensorFile    = "sensor_logs.json"
	demoFile      = "demo_dataset.csv"
)

// Collector gathers readings from the remote satellite sources.
type Collector interface {
	Collect(ctx context.Context) []domain.Reading
}

// SensorBuffer drains buffered IoT sensor readings.
type SensorBuffer interface {
	Drain() []domain.Reading
}

// AlertPublisher pushes a batch of alerts to an external sink.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []domain.Alert) error
}

// AlertArchiver persists alerts for later querying.
type AlertArchiver interface {
	SaveAlerts(alerts []domain.Alert) error
}

// Summary describes the most recent cycle's input volume and threat level.
type Summary struct {
	Timestamp      time.Time `json:"timestamp"`
	TotalSources   int       `json:"total_sources"`
	CameraCount    int       `json:"camera_count"`
	SatelliteCount int       `json:"satellite_count"`
	SensorCount    int       `json:"sensor_count"`
	ThreatLevel    string    `json:"threat_level"`
}

// Monitor orchestrates the refresh loop. Optional stages (sensors,
// publisher, archive) may be nil.
type Monitor struct {
	cfg       *config.Config
	collector Collector
	sensors   SensorBuffer
	store     cache.Store
	publisher AlertPublisher
	archive   AlertArchiver
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu      sync.RWMutex
	alerts  []domain.Alert
	summary Summary
}

// New creates a Monitor with the given stages and observability.
func New(cfg *config.Config, collector Collector, sensors SensorBuffer, store cache.Store,
	publisher AlertPublisher, archive AlertArchiver,
	logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		cfg:       cfg,
		collector: collector,
		sensors:   sensors,
		store:     store,
		publisher: publisher,
		archive:   archive,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one cycle has completed.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("monitor has not completed a cycle yet")
	}
	return nil
}

// Alerts returns the alerts from the most recent completed cycle.
func (m *Monitor) Alerts() []domain.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// LatestSummary returns the summary from the most recent completed cycle.
func (m *Monitor) LatestSummary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary
}

// Run executes the refresh loop until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started", "refresh_interval", m.cfg.RefreshInterval)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if err := m.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.logger.Error("cycle failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		if !sleepWithContext(ctx, m.cfg.RefreshInterval) {
			return nil
		}
	}
}

// runCycle performs one ingest-fuse-detect-publish pass.
func (m *Monitor) runCycle(ctx context.Context) error {
	start := time.Now()

	readings := m.ingestAll(ctx)
	fused := domain.FuseStreams(readings...)

	counts := domain.CountBySource(fused)
	for source, n := range counts {
		m.metrics.ReadingsIngested.WithLabelValues(source).Add(float64(n))
	}
	m.metrics.FusedBatch.Observe(float64(len(fused)))

	detections := domain.DetectComprehensive(fused)
	detections = append(detections, domain.DetectThreats(fused)...)
	for _, d := range detections {
		m.metrics.DetectionsTotal.WithLabelValues(d.Type).Inc()
	}

	alerts := domain.CorrelateDetections(detections)
	for _, a := range alerts {
		m.metrics.AlertsGenerated.WithLabelValues(a.Severity).Inc()
	}

	summary := buildSummary(counts, alerts)

	m.mu.Lock()
	m.alerts = alerts
	m.summary = summary
	m.mu.Unlock()

	if err := m.cacheResults(ctx, alerts, summary); err != nil {
		m.logger.Warn("cache update failed", "error", err)
	}
	if m.archive != nil {
		if err := m.archive.SaveAlerts(alerts); err != nil {
			m.logger.Warn("alert archive failed", "error", err)
		}
	}
	if m.publisher != nil && len(alerts) > 0 {
		if err := m.publisher.PublishAlerts(ctx, alerts); err != nil {
			return err
		}
		m.metrics.AlertsPublished.Add(float64(len(alerts)))
	}

	m.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	m.ready.Store(true)
	m.logger.Info("cycle complete",
		"readings", len(fused),
		"detections", len(detections),
		"alerts", len(alerts),
		"threat_level", summary.ThreatLevel,
	)
	return nil
}

// ingestAll gathers readings from every enabled source. Per-source failures
// are logged and skipped so one bad file or feed never stalls the cycle.
func (m *Monitor) ingestAll(ctx context.Context) [][]domain.Reading {
	var streams [][]domain.Reading

	add := func(name string, readings []domain.Reading, err error) {
		if err != nil {
			m.logger.Debug("source unavailable", "source", name, "error", err)
			return
		}
		streams = append(streams, readings)
	}

	lat, lon := m.cfg.RegionLat, m.cfg.RegionLon
	dir := m.cfg.DataDir

	cameras, err := ingest.ReadCameraDir(dir, lat, lon)
	add("camera", cameras, err)
	sats, err := ingest.ReadSatelliteCSV(filepath.Join(dir, satelliteFile))
	add("satellite", sats, err)
	sensors, err := ingest.ReadSensorJSON(filepath.Join(dir, sensorFile))
	add("sensor", sensors, err)
	demo, err := ingest.ReadDemoCSV(filepath.Join(dir, demoFile), lat, lon)
	add("demo", demo, err)

	if m.collector != nil {
		streams = append(streams, m.collector.Collect(ctx))
	}
	if m.sensors != nil {
		streams = append(streams, m.sensors.Drain())
	}
	return streams
}

// cacheResults writes the cycle output to the alert cache.
func (m *Monitor) cacheResults(ctx context.Context, alerts []domain.Alert, summary Summary) error {
	alertData, err := json.Marshal(alerts)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, cache.KeyAlerts, alertData, m.cfg.CacheTTL); err != nil {
		return err
	}
	summaryData, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, cache.KeySummary, summaryData, m.cfg.CacheTTL)
}

func buildSummary(counts map[string]int, alerts []domain.Alert) Summary {
	var camera, satellite, sensor int
	for source, n := range counts {
		switch {
		case source == domain.SourceCamera:
			camera += n
		case source == domain.SourceSensor || source == domain.SourceIoTSensor:
			sensor += n
		default:
			satellite += n
		}
	}
	return Summary{
		Timestamp:      domain.Clock().Now().UTC(),
		TotalSources:   camera + satellite + sensor,
		CameraCount:    camera,
		SatelliteCount: satellite,
		SensorCount:    sensor,
		ThreatLevel:    domain.ThreatLevel(alerts),
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
