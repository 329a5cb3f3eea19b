package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Recommended responses by alert severity.
const (
	ResponseImmediate = "Immediate response required"
	ResponseMonitor   = "Monitor situation"
)

// GenerateAlerts turns detections into final alert objects, assigning
// deterministic IDs and a recommended response based on severity.
func GenerateAlerts(detections []Detection) []Alert {
	alerts := make([]Alert, 0, len(detections))
	for _, d := range detections {
		alerts = append(alerts, newAlert(d))
	}
	return alerts
}

func newAlert(d Detection) Alert {
	return Alert{
		ID:                  generateID(d.Type, d.Lat, d.Lon, d.Timestamp),
		Type:                d.Type,
		Severity:            d.Severity,
		Confidence:          d.Confidence,
		Time:                d.Timestamp,
		Location:            Geo{Lat: d.Lat, Lon: d.Lon},
		RecommendedResponse: recommendedResponse(d.Severity),
		Details:             d.Details,
	}
}

func recommendedResponse(severity string) string {
	if severity == SeverityHigh {
		return ResponseImmediate
	}
	return ResponseMonitor
}

// generateID produces a deterministic ID from the alert's key fields.
// Reprocessing the same readings yields the same ID, which keeps downstream
// upserts and Kafka keying idempotent across replays.
func generateID(alertType string, lat, lon float64, t time.Time) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%s", alertType, lat, lon, t.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if alertType == "" {
		return short
	}
	return alertType + "-" + short
}

// ThreatLevel derives the overall threat label for a set of alerts: the
// highest severity present, or "low" when there are no alerts.
func ThreatLevel(alerts []Alert) string {
	level := SeverityLow
	for i := range alerts {
		level = MaxSeverity(level, alerts[i].Severity)
	}
	return level
}
