package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/firesight-ai/firesight/internal/domain"
)

type sensorRecord struct {
	Timestamp     string   `json:"timestamp"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Temperature   float64  `json:"temperature"`
	Humidity      float64  `json:"humidity"`
	CO2           *float64 `json:"co2"`
	SmokeDetected *bool    `json:"smoke_detected"`
}

// ReadSensorJSON parses an IoT sensor log file: a JSON array of records
// with timestamp, position, temperature, and humidity, plus optional
// co2 and smoke_detected fields.
func ReadSensorJSON(path string) ([]domain.Reading, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening sensor log: %w", err)
	}

	var records []sensorRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing sensor log: %w", err)
	}

	readings := make([]domain.Reading, 0, len(records))
	for _, rec := range records {
		ts, err := parseTimestamp(rec.Timestamp)
		if err != nil {
			return nil, err
		}

		data := map[string]any{
			"temperature": rec.Temperature,
			"humidity":    rec.Humidity,
		}
		if rec.CO2 != nil {
			data["co2"] = *rec.CO2
		}
		if rec.SmokeDetected != nil {
			data["smoke_detected"] = *rec.SmokeDetected
		}

		readings = append(readings, domain.Reading{
			Source:    domain.SourceSensor,
			Timestamp: ts,
			Lat:       rec.Lat,
			Lon:       rec.Lon,
			Data:      data,
		})
	}
	return readings, nil
}
