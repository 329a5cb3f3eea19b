package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Detection rule thresholds.
const (
	// ThermalThreshold is the minimum satellite thermal index considered a
	// possible fire signature.
	ThermalThreshold = 50.0

	// SensorTempMedium and SensorTempHigh split ground-sensor temperature
	// readings into medium and high severity.
	SensorTempMedium = 35.0
	SensorTempHigh   = 45.0

	// BasicSevereTemp is the high-severity cutoff for the basic
	// satellite+sensor pairing rule.
	BasicSevereTemp = 50.0

	// CO2Threshold is the combustion-indicating CO2 concentration in ppm.
	CO2Threshold = 1000.0

	// LowHumidityThreshold flags dangerously dry air in percent RH.
	LowHumidityThreshold = 20.0

	// FRPThreshold (megawatts) and BrightnessThreshold (kelvin) flag FIRMS
	// hotspot detections strong enough to treat as thermal anomalies.
	FRPThreshold        = 25.0
	BrightnessThreshold = 330.0

	// PairWindow is the maximum time distance between a satellite reading
	// and a corroborating sensor reading.
	PairWindow = 5 * time.Minute

	// CorrelationGrid is the grid cell size in degrees (~1 km) used to
	// group detections into a single alert.
	CorrelationGrid = 0.01
)

// DetectThreats applies the basic pairing rule: a hot satellite reading
// corroborated by a nearby-in-time sensor reading above the temperature
// cutoff. Severity is high at 50 °C sensor temperature, medium below.
func DetectThreats(fused []Reading) []Detection {
	var sensors, satellites []Reading
	for _, r := range fused {
		switch r.Source {
		case SourceSensor, SourceIoTSensor:
			sensors = append(sensors, r)
		case SourceSatellite:
			satellites = append(satellites, r)
		}
	}

	var detections []Detection
	for _, sat := range satellites {
		thermal := sat.Num("thermal")
		if thermal < ThermalThreshold {
			continue
		}
		for _, sensor := range sensors {
			if absDuration(sensor.Timestamp.Sub(sat.Timestamp)) > PairWindow {
				continue
			}
			temp := sensor.Num("temperature")
			if temp < SensorTempMedium {
				continue
			}
			severity := SeverityMedium
			if temp >= BasicSevereTemp {
				severity = SeverityHigh
			}
			detections = append(detections, Detection{
				Type:      "detection",
				Source:    SourceSatellite,
				Severity:  severity,
				Timestamp: sat.Timestamp,
				Lat:       sat.Lat,
				Lon:       sat.Lon,
				Details: map[string]any{
					"thermal":              thermal,
					"temperature":          temp,
					"humidity":             sensor.Num("humidity"),
					"predicted_spread_km2": thermal / ThermalThreshold,
				},
			})
		}
	}
	return detections
}

// DetectComprehensive applies per-source rules across all modalities and
// returns the raw detections. Callers usually feed the result through
// [CorrelateDetections] to collapse co-located hits into alerts.
func DetectComprehensive(fused []Reading) []Detection {
	var detections []Detection
	for _, r := range fused {
		switch r.Source {
		case SourceCamera:
			if d, ok := detectCameraFrame(r); ok {
				detections = append(detections, d)
			}
		case SourceSatellite:
			if d, ok := detectThermalAnomaly(r); ok {
				detections = append(detections, d)
			}
		case SourceSensor, SourceIoTSensor:
			if d, ok := detectSensorAlert(r); ok {
				detections = append(detections, d)
			}
		default:
			if !HotspotSources[r.Source] {
				continue
			}
			if d, ok := detectHotspot(r); ok {
				detections = append(detections, d)
			}
		}
	}
	return detections
}

// detectCameraFrame classifies a demo camera frame by filename. Frames named
// for fire score high enough to count as a visual detection; smoke frames
// land just above the cutoff.
func detectCameraFrame(r Reading) (Detection, bool) {
	name := strings.ToLower(r.Str("file"))
	hasFire := strings.Contains(name, "fire")
	hasSmoke := strings.Contains(name, "smoke")
	if !hasFire && !hasSmoke {
		return Detection{}, false
	}

	class := "smoke"
	confidence := 0.75
	severity := SeverityMedium
	if hasFire {
		class = "fire"
		confidence = 0.85
		severity = SeverityHigh
	}
	return Detection{
		Type:       "visual_detection",
		Source:     SourceCamera,
		Severity:   severity,
		Confidence: confidence,
		Timestamp:  r.Timestamp,
		Lat:        r.Lat,
		Lon:        r.Lon,
		Details: map[string]any{
			"class":      class,
			"image_file": r.Str("file"),
		},
	}, true
}

// detectThermalAnomaly flags demo satellite readings whose thermal index
// exceeds the threshold.
func detectThermalAnomaly(r Reading) (Detection, bool) {
	thermal := r.Num("thermal")
	if thermal <= ThermalThreshold {
		return Detection{}, false
	}
	return Detection{
		Type:       "thermal_anomaly",
		Source:     SourceSatellite,
		Severity:   SeverityHigh,
		Confidence: 0.85,
		Timestamp:  r.Timestamp,
		Lat:        r.Lat,
		Lon:        r.Lon,
		Details: map[string]any{
			"thermal_value": thermal,
		},
	}, true
}

// detectHotspot flags FIRMS hotspots with strong fire radiative power or
// brightness temperature. Confidence maps from the FIRMS field: numeric
// confidence is scaled from 0-100, categorical low/nominal/high becomes
// 0.5/0.75/0.9.
func detectHotspot(r Reading) (Detection, bool) {
	frp := r.Num("frp")
	brightness := math.Max(r.Num("brightness"), r.Num("bright_ti4"))
	if frp < FRPThreshold && brightness < BrightnessThreshold {
		return Detection{}, false
	}

	confidence := hotspotConfidence(r)
	severity := SeverityMedium
	if confidence >= 0.85 || frp >= 2*FRPThreshold {
		severity = SeverityHigh
	}
	return Detection{
		Type:       "thermal_anomaly",
		Source:     r.Source,
		Severity:   severity,
		Confidence: confidence,
		Timestamp:  r.Timestamp,
		Lat:        r.Lat,
		Lon:        r.Lon,
		Details: map[string]any{
			"frp":        frp,
			"brightness": brightness,
			"satellite":  r.Str("satellite"),
		},
	}, true
}

func hotspotConfidence(r Reading) float64 {
	if n := r.Num("confidence"); n > 0 {
		return math.Min(n/100, 1)
	}
	switch r.Str("confidence") {
	case "high":
		return 0.9
	case "nominal":
		return 0.75
	case "low":
		return 0.5
	default:
		return 0.75
	}
}

// detectSensorAlert applies the ground-sensor rules: elevated temperature,
// very dry air, combustion-level CO2, or an explicit smoke flag. The dryness
// rule only applies when the reading actually carries a humidity field; a
// reported 0 %RH is dry air, not a missing sensor.
func detectSensorAlert(r Reading) (Detection, bool) {
	temp := r.Num("temperature")
	humidity := r.Num("humidity")
	_, hasHumidity := r.Data["humidity"]
	co2 := r.Num("co2")
	smoke := r.Bool("smoke_detected") || r.Bool("smoke")

	triggered := temp >= SensorTempMedium ||
		(hasHumidity && humidity < LowHumidityThreshold) ||
		co2 > CO2Threshold ||
		smoke
	if !triggered {
		return Detection{}, false
	}

	severity := SeverityMedium
	confidence := 0.7
	if temp >= SensorTempHigh || co2 > CO2Threshold || smoke {
		severity = SeverityHigh
		confidence = 0.85
	}
	return Detection{
		Type:       "sensor_alert",
		Source:     SourceSensor,
		Severity:   severity,
		Confidence: confidence,
		Timestamp:  r.Timestamp,
		Lat:        r.Lat,
		Lon:        r.Lon,
		Details: map[string]any{
			"temperature":    temp,
			"humidity":       humidity,
			"co2":            co2,
			"smoke_detected": smoke,
		},
	}, true
}

// CorrelateDetections groups detections into ~1 km grid cells and collapses
// each cell into one wildfire alert. Multiple independent detection types in
// a cell boost confidence by 0.05 per extra type, capped at 0.95. The alert
// carries the highest severity and the latest timestamp of its cell.
func CorrelateDetections(detections []Detection) []Alert {
	type cell struct{ lat, lon float64 }
	grids := make(map[cell][]Detection)
	var order []cell

	for _, d := range detections {
		key := cell{
			lat: math.Round(d.Lat/CorrelationGrid) * CorrelationGrid,
			lon: math.Round(d.Lon/CorrelationGrid) * CorrelationGrid,
		}
		if _, seen := grids[key]; !seen {
			order = append(order, key)
		}
		grids[key] = append(grids[key], d)
	}

	alerts := make([]Alert, 0, len(order))
	for _, key := range order {
		cellDetections := grids[key]

		types := make(map[string]bool)
		sources := make(map[string]bool)
		severity := SeverityLow
		var confidence float64
		latest := cellDetections[0].Timestamp

		for _, d := range cellDetections {
			types[d.Type] = true
			sources[d.Source] = true
			severity = MaxSeverity(severity, d.Severity)
			confidence = math.Max(confidence, d.Confidence)
			if d.Timestamp.After(latest) {
				latest = d.Timestamp
			}
		}
		if len(types) > 1 {
			boost := math.Min(0.15, 0.05*float64(len(types)))
			confidence = math.Min(0.95, confidence+boost)
		}

		alerts = append(alerts, newAlert(Detection{
			Type:       "wildfire_detection",
			Severity:   severity,
			Confidence: confidence,
			Timestamp:  latest,
			Lat:        key.lat,
			Lon:        key.lon,
			Details: map[string]any{
				"detection_types":   sortedKeys(types),
				"detection_sources": sortedKeys(sources),
				"detection_count":   len(cellDetections),
			},
		}))
	}
	return alerts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
