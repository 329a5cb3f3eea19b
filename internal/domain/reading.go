package domain

import "time"

// Reading is the unified representation of one observation from any source.
// The Data map holds source-specific fields; values are float64, string, or
// bool depending on the source.
type Reading struct {
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Lat       float64        `json:"lat"`
	Lon       float64        `json:"lon"`
	Data      map[string]any `json:"data"`
}

// Num returns a numeric field from the reading's data map, or 0 when the
// field is absent or not numeric. JSON decoding produces float64 for all
// numbers, but int shows up in hand-built readings and tests.
func (r Reading) Num(key string) float64 {
	switch v := r.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Str returns a string field from the reading's data map, or "" when absent.
func (r Reading) Str(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// Bool returns a boolean field from the reading's data map. Numeric 1/0
// flags (the demo CSV smoke and flame columns) are accepted as well.
func (r Reading) Bool(key string) bool {
	switch v := r.Data[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Detection is a single rule hit, before correlation into alerts.
type Detection struct {
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Severity   string         `json:"severity"`
	Confidence float64        `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
	Lat        float64        `json:"lat"`
	Lon        float64        `json:"lon"`
	Details    map[string]any `json:"details,omitempty"`
}

// Alert is the user-facing output of a pipeline cycle.
type Alert struct {
	ID                  string         `json:"id"`
	Type                string         `json:"type"`
	Severity            string         `json:"severity"`
	Confidence          float64        `json:"confidence"`
	Time                time.Time      `json:"time"`
	Location            Geo            `json:"location"`
	RecommendedResponse string         `json:"recommended_response"`
	Details             map[string]any `json:"details,omitempty"`
}

// Severity levels, ordered.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

var severityRank = map[string]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// MaxSeverity returns the higher of two severity labels. Unknown labels rank
// below "low".
func MaxSeverity(a, b string) string {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Known reading sources.
const (
	SourceCamera        = "camera"
	SourceSatellite     = "satellite"
	SourceSensor        = "sensor"
	SourceNASAFirms     = "nasa_firms"
	SourceMODIS         = "modis"
	SourceVIIRSSNPP     = "viirs_snpp"
	SourceVIIRSNOAA20   = "viirs_noaa20"
	SourceVIIRSCombined = "viirs_combined"
	SourceNIFCPerimeter = "nifc_perimeter"
	SourceIRWINIncident = "irwin_incident"
	SourceIoTSensor     = "iot_sensor"
)

// HotspotSources are the satellite sources whose readings carry FIRMS-style
// fire radiative power and brightness fields.
var HotspotSources = map[string]bool{
	SourceNASAFirms:     true,
	SourceMODIS:         true,
	SourceVIIRSSNPP:     true,
	SourceVIIRSNOAA20:   true,
	SourceVIIRSCombined: true,
}

// AlertTypes lists the alert type labels the service can emit.
var AlertTypes = []string{"detection", "wildfire_detection", "prediction"}

// AlertSeverities lists the severity labels in ascending order.
var AlertSeverities = []string{SeverityLow, SeverityMedium, SeverityHigh}
