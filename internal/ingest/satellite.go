package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/firesight-ai/firesight/internal/domain"
)

// ReadSatelliteCSV parses a satellite thermal CSV with the header
// timestamp,lat,lon,thermal into unified satellite readings.
func ReadSatelliteCSV(path string) ([]domain.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening satellite csv: %w", err)
	}
	defer f.Close()

	return parseSatelliteCSV(f)
}

func parseSatelliteCSV(r io.Reader) ([]domain.Reading, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading satellite csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"timestamp", "lat", "lon", "thermal"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("satellite csv missing column %q", required)
		}
	}

	var readings []domain.Reading
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading satellite csv row: %w", err)
		}

		ts, err := parseTimestamp(row[col["timestamp"]])
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(row[col["lat"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing satellite lat: %w", err)
		}
		lon, err := strconv.ParseFloat(row[col["lon"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing satellite lon: %w", err)
		}
		thermal, err := strconv.ParseFloat(row[col["thermal"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing satellite thermal: %w", err)
		}

		readings = append(readings, domain.Reading{
			Source:    domain.SourceSatellite,
			Timestamp: ts,
			Lat:       lat,
			Lon:       lon,
			Data:      map[string]any{"thermal": thermal},
		})
	}
	return readings, nil
}
