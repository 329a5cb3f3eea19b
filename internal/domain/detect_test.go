package domain_test

import (
	"testing"
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func satReading(minute int, thermal float64) domain.Reading {
	return domain.Reading{
		Source:    domain.SourceSatellite,
		Timestamp: ts(minute),
		Lat:       34.05,
		Lon:       -118.25,
		Data:      map[string]any{"thermal": thermal},
	}
}

func sensorReading(minute int, temp, humidity float64) domain.Reading {
	return domain.Reading{
		Source:    domain.SourceSensor,
		Timestamp: ts(minute),
		Lat:       34.05,
		Lon:       -118.25,
		Data:      map[string]any{"temperature": temp, "humidity": humidity},
	}
}

func TestDetectThreats_FiresAboveThresholds(t *testing.T) {
	fused := domain.FuseStreams(
		[]domain.Reading{satReading(0, 75)},
		[]domain.Reading{sensorReading(2, 55, 18)},
	)

	detections := domain.DetectThreats(fused)

	require.Len(t, detections, 1)
	d := detections[0]
	assert.Equal(t, "detection", d.Type)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.Equal(t, 34.05, d.Lat)
	assert.InDelta(t, 1.5, d.Details["predicted_spread_km2"], 1e-9)
	assert.Equal(t, 55.0, d.Details["temperature"])
}

func TestDetectThreats_MediumSeverityBelowSevereTemp(t *testing.T) {
	fused := domain.FuseStreams(
		[]domain.Reading{satReading(0, 50)},
		[]domain.Reading{sensorReading(0, 40, 30)},
	)

	detections := domain.DetectThreats(fused)

	require.Len(t, detections, 1)
	assert.Equal(t, domain.SeverityMedium, detections[0].Severity)
}

func TestDetectThreats_NoAlertCases(t *testing.T) {
	cases := []struct {
		name      string
		satellite domain.Reading
		sensor    domain.Reading
	}{
		{
			name:      "thermal below threshold",
			satellite: satReading(0, 49),
			sensor:    sensorReading(0, 55, 20),
		},
		{
			name:      "sensor temperature below threshold",
			satellite: satReading(0, 80),
			sensor:    sensorReading(0, 30, 50),
		},
		{
			name:      "sensor outside pairing window",
			satellite: satReading(0, 80),
			sensor:    sensorReading(6, 55, 20),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fused := domain.FuseStreams(
				[]domain.Reading{tc.satellite},
				[]domain.Reading{tc.sensor},
			)
			assert.Empty(t, domain.DetectThreats(fused))
		})
	}
}

func TestDetectComprehensive_SensorRules(t *testing.T) {
	cases := []struct {
		name         string
		data         map[string]any
		wantDetected bool
		wantSeverity string
	}{
		{
			name:         "high temperature",
			data:         map[string]any{"temperature": 46.0, "humidity": 40.0},
			wantDetected: true,
			wantSeverity: domain.SeverityHigh,
		},
		{
			name:         "medium temperature",
			data:         map[string]any{"temperature": 36.0, "humidity": 40.0},
			wantDetected: true,
			wantSeverity: domain.SeverityMedium,
		},
		{
			name:         "very dry air",
			data:         map[string]any{"temperature": 25.0, "humidity": 15.0},
			wantDetected: true,
			wantSeverity: domain.SeverityMedium,
		},
		{
			name:         "combustion level co2",
			data:         map[string]any{"temperature": 25.0, "humidity": 40.0, "co2": 1200.0},
			wantDetected: true,
			wantSeverity: domain.SeverityHigh,
		},
		{
			name:         "smoke flag",
			data:         map[string]any{"temperature": 20.0, "humidity": 40.0, "smoke_detected": true},
			wantDetected: true,
			wantSeverity: domain.SeverityHigh,
		},
		{
			name:         "zero humidity is dry air",
			data:         map[string]any{"temperature": 25.0, "humidity": 0.0},
			wantDetected: true,
			wantSeverity: domain.SeverityMedium,
		},
		{
			name:         "missing humidity does not trip dryness rule",
			data:         map[string]any{"temperature": 25.0},
			wantDetected: false,
		},
		{
			name:         "nominal conditions",
			data:         map[string]any{"temperature": 22.0, "humidity": 45.0, "co2": 450.0},
			wantDetected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fused := []domain.Reading{{
				Source:    domain.SourceSensor,
				Timestamp: ts(0),
				Lat:       34.05,
				Lon:       -118.25,
				Data:      tc.data,
			}}

			detections := domain.DetectComprehensive(fused)

			if !tc.wantDetected {
				assert.Empty(t, detections)
				return
			}
			require.Len(t, detections, 1)
			assert.Equal(t, "sensor_alert", detections[0].Type)
			assert.Equal(t, tc.wantSeverity, detections[0].Severity)
		})
	}
}

func TestDetectComprehensive_CameraFilenameHeuristic(t *testing.T) {
	fused := []domain.Reading{
		{Source: domain.SourceCamera, Timestamp: ts(0), Data: map[string]any{"file": "frame_fire_001.jpg"}},
		{Source: domain.SourceCamera, Timestamp: ts(1), Data: map[string]any{"file": "smoke_plume.png"}},
		{Source: domain.SourceCamera, Timestamp: ts(2), Data: map[string]any{"file": "landscape.jpg"}},
	}

	detections := domain.DetectComprehensive(fused)

	require.Len(t, detections, 2)
	assert.Equal(t, "fire", detections[0].Details["class"])
	assert.Equal(t, domain.SeverityHigh, detections[0].Severity)
	assert.Equal(t, "smoke", detections[1].Details["class"])
	assert.Equal(t, domain.SeverityMedium, detections[1].Severity)
}

func TestDetectComprehensive_FirmsHotspots(t *testing.T) {
	fused := []domain.Reading{
		{
			Source:    domain.SourceNASAFirms,
			Timestamp: ts(0),
			Lat:       36.77,
			Lon:       -119.41,
			Data:      map[string]any{"frp": 55.0, "confidence": "high", "satellite": "NPP"},
		},
		{
			Source:    domain.SourceNASAFirms,
			Timestamp: ts(1),
			Data:      map[string]any{"frp": 4.0, "bright_ti4": 300.0, "confidence": "low"},
		},
	}

	detections := domain.DetectComprehensive(fused)

	require.Len(t, detections, 1)
	d := detections[0]
	assert.Equal(t, "thermal_anomaly", d.Type)
	assert.Equal(t, domain.SourceNASAFirms, d.Source)
	assert.Equal(t, domain.SeverityHigh, d.Severity)
	assert.InDelta(t, 0.9, d.Confidence, 1e-9)
}

func TestDetectComprehensive_NumericFirmsConfidence(t *testing.T) {
	fused := []domain.Reading{{
		Source:    domain.SourceNASAFirms,
		Timestamp: ts(0),
		Data:      map[string]any{"frp": 30.0, "confidence": 62.0},
	}}

	detections := domain.DetectComprehensive(fused)

	require.Len(t, detections, 1)
	assert.InDelta(t, 0.62, detections[0].Confidence, 1e-9)
	assert.Equal(t, domain.SeverityMedium, detections[0].Severity)
}

func TestCorrelateDetections_MergesSameCell(t *testing.T) {
	detections := []domain.Detection{
		{
			Type: "thermal_anomaly", Source: domain.SourceSatellite,
			Severity: domain.SeverityMedium, Confidence: 0.8,
			Timestamp: ts(0), Lat: 34.052, Lon: -118.248,
		},
		{
			Type: "sensor_alert", Source: domain.SourceSensor,
			Severity: domain.SeverityHigh, Confidence: 0.85,
			Timestamp: ts(3), Lat: 34.049, Lon: -118.251,
		},
	}

	alerts := domain.CorrelateDetections(detections)

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "wildfire_detection", a.Type)
	assert.Equal(t, domain.SeverityHigh, a.Severity)
	// Max confidence 0.85 plus a 0.10 boost for two detection types.
	assert.InDelta(t, 0.95, a.Confidence, 1e-9)
	assert.Equal(t, ts(3), a.Time)
	assert.Equal(t, []string{"sensor_alert", "thermal_anomaly"}, a.Details["detection_types"])
	assert.Equal(t, 2, a.Details["detection_count"])
	assert.Equal(t, domain.ResponseImmediate, a.RecommendedResponse)
}

func TestCorrelateDetections_SeparateCellsStaySeparate(t *testing.T) {
	detections := []domain.Detection{
		{Type: "sensor_alert", Severity: domain.SeverityMedium, Confidence: 0.7, Timestamp: ts(0), Lat: 34.05, Lon: -118.25},
		{Type: "sensor_alert", Severity: domain.SeverityMedium, Confidence: 0.7, Timestamp: ts(0), Lat: 37.77, Lon: -122.42},
	}

	alerts := domain.CorrelateDetections(detections)

	require.Len(t, alerts, 2)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)
	for _, a := range alerts {
		// Single detection type: no confidence boost.
		assert.InDelta(t, 0.7, a.Confidence, 1e-9)
	}
}

func TestCorrelateDetections_ConfidenceCap(t *testing.T) {
	detections := []domain.Detection{
		{Type: "visual_detection", Severity: domain.SeverityHigh, Confidence: 0.93, Timestamp: ts(0), Lat: 34.05, Lon: -118.25},
		{Type: "sensor_alert", Severity: domain.SeverityHigh, Confidence: 0.9, Timestamp: ts(1), Lat: 34.05, Lon: -118.25},
		{Type: "thermal_anomaly", Severity: domain.SeverityHigh, Confidence: 0.9, Timestamp: ts(2), Lat: 34.05, Lon: -118.25},
	}

	alerts := domain.CorrelateDetections(detections)

	require.Len(t, alerts, 1)
	assert.InDelta(t, 0.95, alerts[0].Confidence, 1e-9)
}

func TestDetectThreats_AcceptsIoTSensorSource(t *testing.T) {
	iot := domain.Reading{
		Source:    domain.SourceIoTSensor,
		Timestamp: ts(1),
		Lat:       34.05,
		Lon:       -118.25,
		Data:      map[string]any{"temperature": 52.0, "humidity": 12.0},
	}
	fused := domain.FuseStreams([]domain.Reading{satReading(0, 90)}, []domain.Reading{iot})

	detections := domain.DetectThreats(fused)

	require.Len(t, detections, 1)
	assert.Equal(t, domain.SeverityHigh, detections[0].Severity)
}

func TestPairWindowBoundary(t *testing.T) {
	sat := satReading(0, 80)
	sensor := sensorReading(5, 40, 30)
	sensor.Timestamp = sat.Timestamp.Add(5 * time.Minute)

	detections := domain.DetectThreats([]domain.Reading{sat, sensor})

	// Exactly five minutes apart is still inside the pairing window.
	require.Len(t, detections, 1)
}
