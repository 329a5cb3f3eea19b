package firms

import (
	"math"
	"strconv"
)

// mergeThreshold is the maximum separation in degrees for two detections
// from different satellites to count as the same fire (~1 km).
const mergeThreshold = 0.01

// MergeNearby collapses detections that are likely observing the same
// fire from different VIIRS platforms. A merged detection averages
// position and FRP, keeps the latest acquisition time and the highest
// confidence, and records the contributing satellites.
func MergeNearby(hotspots []Hotspot) []Hotspot {
	merged := make([]Hotspot, 0, len(hotspots))
	processed := make([]bool, len(hotspots))

	for i, h := range hotspots {
		if processed[i] {
			continue
		}
		cluster := []Hotspot{h}
		processed[i] = true

		for j := i + 1; j < len(hotspots); j++ {
			if processed[j] {
				continue
			}
			if math.Abs(h.Lat-hotspots[j].Lat) < mergeThreshold &&
				math.Abs(h.Lon-hotspots[j].Lon) < mergeThreshold {
				cluster = append(cluster, hotspots[j])
				processed[j] = true
			}
		}

		if len(cluster) == 1 {
			merged = append(merged, h)
			continue
		}
		merged = append(merged, mergeCluster(cluster))
	}
	return merged
}

func mergeCluster(cluster []Hotspot) Hotspot {
	out := Hotspot{
		Acquired:       cluster[0].Acquired,
		Confidence:     cluster[0].Confidence,
		Instrument:     cluster[0].Instrument,
		DayNight:       cluster[0].DayNight,
		DetectionCount: len(cluster),
	}
	for _, h := range cluster {
		out.Lat += h.Lat
		out.Lon += h.Lon
		out.FRP += h.FRP
		out.Satellites = append(out.Satellites, h.Satellite)
		if h.Acquired.After(out.Acquired) {
			out.Acquired = h.Acquired
		}
		if confidenceRank(h.Confidence) > confidenceRank(out.Confidence) {
			out.Confidence = h.Confidence
		}
	}
	n := float64(len(cluster))
	out.Lat /= n
	out.Lon /= n
	out.FRP /= n
	return out
}

// confidenceRank orders FIRMS confidence values across both encodings:
// numeric MODIS percentages and categorical VIIRS labels.
func confidenceRank(confidence string) float64 {
	switch confidence {
	case "low":
		return 30
	case "nominal":
		return 60
	case "high":
		return 90
	}
	n, err := strconv.ParseFloat(confidence, 64)
	if err != nil {
		return 0
	}
	return n
}
