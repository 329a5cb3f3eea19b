// Package ingest reads local demo data files into unified readings:
// camera frame directories, satellite thermal CSVs, IoT sensor JSON
// logs, and the multi-sensor demo dataset produced by cmd/gendemo.
package ingest

import (
	"fmt"
	"time"
)

// timestampLayouts are accepted in order. Demo files may carry either a
// full RFC3339 timestamp or a bare ISO 8601 local time without a zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
