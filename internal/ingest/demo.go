package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/firesight-ai/firesight/internal/domain"
)

// DemoColumns is the header of the multi-sensor demo dataset written by
// cmd/gendemo: one row per minute of simulated sensor telemetry.
var DemoColumns = []string{"timestamp", "temperature_c", "humidity_pct", "co2_ppm", "smoke", "flame"}

// ReadDemoCSV parses a gendemo dataset into sensor readings positioned
// at the given station location. The smoke and flame columns are 0/1
// flags; smoke maps to the smoke_detected payload field.
func ReadDemoCSV(path string, lat, lon float64) ([]domain.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening demo dataset: %w", err)
	}
	defer f.Close()

	return parseDemoCSV(f, lat, lon)
}

func parseDemoCSV(r io.Reader, lat, lon float64) ([]domain.Reading, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading demo dataset header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range DemoColumns {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("demo dataset missing column %q", required)
		}
	}

	var readings []domain.Reading
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading demo dataset row: %w", err)
		}

		ts, err := parseTimestamp(row[col["timestamp"]])
		if err != nil {
			return nil, err
		}
		temp, err := strconv.ParseFloat(row[col["temperature_c"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing temperature_c: %w", err)
		}
		humidity, err := strconv.ParseFloat(row[col["humidity_pct"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing humidity_pct: %w", err)
		}
		co2, err := strconv.ParseFloat(row[col["co2_ppm"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing co2_ppm: %w", err)
		}

		readings = append(readings, domain.Reading{
			Source:    domain.SourceSensor,
			Timestamp: ts,
			Lat:       lat,
			Lon:       lon,
			Data: map[string]any{
				"temperature":    temp,
				"humidity":       humidity,
				"co2":            co2,
				"smoke_detected": row[col["smoke"]] == "1",
				"flame":          row[col["flame"]] == "1",
			},
		})
	}
	return readings, nil
}
