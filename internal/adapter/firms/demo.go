package firms

import (
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
)

// demoHotspots builds a deterministic grid of detections around the query
// center: a stand-in for the area API when no key is configured or the
// request fails. The same query always yields the same grid, so alert IDs
// stay stable across pipeline cycles.
func demoHotspots(platform string, q Query) []Hotspot {
	acquired := domain.Clock().Now().UTC().Add(-24 * time.Hour).Truncate(time.Hour)

	if platform == PlatformMODIS {
		return demoMODISGrid(q, acquired)
	}
	return demoVIIRSGrid(platform, q, acquired)
}

func demoMODISGrid(q Query, acquired time.Time) []Hotspot {
	var hotspots []Hotspot
	for i := -3; i <= 3; i += 2 {
		for j := -3; j <= 3; j += 2 {
			if abs(i)+abs(j) > 5 {
				continue
			}
			cell := float64(abs(i) + abs(j))
			hotspots = append(hotspots, Hotspot{
				Lat:        q.Lat + float64(i)*0.025,
				Lon:        q.Lon + float64(j)*0.025,
				Acquired:   acquired,
				Confidence: "75",
				FRP:        10 + 5*cell,
				Brightness: 310 + 2*cell,
				Scan:       0.8,
				Track:      0.8,
				Satellite:  "Terra",
				Instrument: "MODIS",
				DayNight:   "D",
			})
		}
	}
	return hotspots
}

func demoVIIRSGrid(platform string, q Query, acquired time.Time) []Hotspot {
	satellite := "NPP"
	if platform == PlatformVIIRSNOAA20 {
		satellite = "NOAA-20"
	}

	var hotspots []Hotspot
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			if abs(i)+abs(j) > 3 {
				continue
			}
			cell := float64(abs(i) + abs(j))
			confidence := "nominal"
			if cell < 2 {
				confidence = "high"
			}
			hotspots = append(hotspots, Hotspot{
				Lat:        q.Lat + float64(i)*0.02,
				Lon:        q.Lon + float64(j)*0.02,
				Acquired:   acquired,
				Confidence: confidence,
				FRP:        15 + 8*cell,
				Brightness: 320 + 3*cell,
				BrightTI5:  293,
				Scan:       0.5,
				Track:      0.5,
				Satellite:  satellite,
				Instrument: "VIIRS",
				DayNight:   "D",
			})
		}
	}
	return hotspots
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
