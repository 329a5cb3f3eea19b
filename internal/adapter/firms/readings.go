package firms

import (
	"context"
	"strconv"

	"github.com/firesight-ai/firesight/internal/domain"
)

// MODISReadings fetches MODIS Collection hotspots as unified readings.
func (c *Client) MODISReadings(ctx context.Context, q Query) []domain.Reading {
	hotspots := c.ActiveFires(ctx, PlatformMODIS, q)
	readings := make([]domain.Reading, 0, len(hotspots))
	for _, h := range hotspots {
		readings = append(readings, domain.Reading{
			Source:    domain.SourceMODIS,
			Timestamp: h.Acquired,
			Lat:       h.Lat,
			Lon:       h.Lon,
			Data: map[string]any{
				"satellite":  h.Satellite,
				"instrument": "MODIS",
				"confidence": confidenceValue(h.Confidence),
				"frp":        h.FRP,
				"brightness": h.Brightness,
				"scan":       h.Scan,
				"track":      h.Track,
				"daynight":   h.DayNight,
			},
		})
	}
	return readings
}

// VIIRSReadings fetches VIIRS I-Band hotspots for one platform as
// unified readings.
func (c *Client) VIIRSReadings(ctx context.Context, platform string, q Query) []domain.Reading {
	source := domain.SourceVIIRSSNPP
	if platform == PlatformVIIRSNOAA20 {
		source = domain.SourceVIIRSNOAA20
	}

	hotspots := c.ActiveFires(ctx, platform, q)
	readings := make([]domain.Reading, 0, len(hotspots))
	for _, h := range hotspots {
		readings = append(readings, domain.Reading{
			Source:    source,
			Timestamp: h.Acquired,
			Lat:       h.Lat,
			Lon:       h.Lon,
			Data: map[string]any{
				"satellite":  h.Satellite,
				"instrument": "VIIRS",
				"confidence": confidenceValue(h.Confidence),
				"frp":        h.FRP,
				"bright_ti4": h.Brightness,
				"bright_ti5": h.BrightTI5,
				"scan":       h.Scan,
				"track":      h.Track,
				"daynight":   h.DayNight,
			},
		})
	}
	return readings
}

// CombinedVIIRSReadings fetches both VIIRS platforms and merges nearby
// detections into single combined readings.
func (c *Client) CombinedVIIRSReadings(ctx context.Context, q Query) []domain.Reading {
	combined := append(
		c.ActiveFires(ctx, PlatformVIIRSSNPP, q),
		c.ActiveFires(ctx, PlatformVIIRSNOAA20, q)...,
	)

	merged := MergeNearby(combined)
	readings := make([]domain.Reading, 0, len(merged))
	for _, h := range merged {
		satellites := h.Satellites
		if len(satellites) == 0 {
			satellites = []string{h.Satellite}
		}
		count := h.DetectionCount
		if count == 0 {
			count = 1
		}
		readings = append(readings, domain.Reading{
			Source:    domain.SourceVIIRSCombined,
			Timestamp: h.Acquired,
			Lat:       h.Lat,
			Lon:       h.Lon,
			Data: map[string]any{
				"satellites":      satellites,
				"instrument":      "VIIRS",
				"confidence":      confidenceValue(h.Confidence),
				"frp":             h.FRP,
				"bright_ti4":      h.Brightness,
				"detection_count": count,
				"daynight":        h.DayNight,
			},
		})
	}
	return readings
}

// confidenceValue keeps the FIRMS confidence in its native form: numeric
// MODIS percentages become float64, categorical VIIRS labels stay strings.
func confidenceValue(confidence string) any {
	if n, err := strconv.ParseFloat(confidence, 64); err == nil {
		return n
	}
	return confidence
}
