package arcgis

import (
	"context"
	"fmt"
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
)

// PerimeterReadings fetches recent NIFC fire perimeters as unified
// readings. The reading position is the first perimeter vertex; the
// perimeter rings ride along in the payload. Query failure degrades to
// deterministic demo perimeters.
func (c *Client) PerimeterReadings(ctx context.Context, state string, daysBack int) []domain.Reading {
	since := domain.Clock().Now().UTC().AddDate(0, 0, -daysBack)
	where := fmt.Sprintf("FireDiscoveryDateTime >= '%s'", since.Format("2006-01-02"))
	if state != "" {
		where += fmt.Sprintf(" AND POOState = '%s'", state)
	}

	start := time.Now()
	features, err := c.query(ctx, c.nifcURL, where)
	c.metrics.SourceDuration.WithLabelValues(domain.SourceNIFCPerimeter).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Error("NIFC perimeter fetch failed, using demo data", "error", err)
		c.metrics.SourceFetches.WithLabelValues(domain.SourceNIFCPerimeter, "fallback").Inc()
		features = demoPerimeters(state)
	} else {
		c.metrics.SourceFetches.WithLabelValues(domain.SourceNIFCPerimeter, "success").Inc()
	}

	readings := make([]domain.Reading, 0, len(features))
	for _, f := range features {
		discovered, ok := attrTime(f.Attributes, "FireDiscoveryDateTime")
		if !ok {
			discovered = domain.Clock().Now().UTC()
		}

		var lat, lon float64
		if len(f.Geometry.Rings) > 0 && len(f.Geometry.Rings[0]) > 0 && len(f.Geometry.Rings[0][0]) >= 2 {
			lon = f.Geometry.Rings[0][0][0]
			lat = f.Geometry.Rings[0][0][1]
		}

		readings = append(readings, domain.Reading{
			Source:    domain.SourceNIFCPerimeter,
			Timestamp: discovered,
			Lat:       lat,
			Lon:       lon,
			Data: map[string]any{
				"fire_name": attrStr(f.Attributes, "FireName"),
				"fire_year": attrNum(f.Attributes, "FireYear"),
				"acres":     attrNum(f.Attributes, "CalculatedAcres"),
				"state":     attrStr(f.Attributes, "POOState"),
				"county":    attrStr(f.Attributes, "POOCounty"),
				"cause":     attrStr(f.Attributes, "FireCause"),
				"status":    attrStr(f.Attributes, "FireStatus"),
				"perimeter": f.Geometry.Rings,
			},
		})
	}
	return readings
}

// demoPerimeters builds a fixed set of fire perimeters: small square
// rings around western-US anchor points, discovered over the past few
// days relative to the clock.
func demoPerimeters(state string) []feature {
	fires := []struct {
		name    string
		state   string
		lat     float64
		lon     float64
		acres   float64
		status  string
		daysAgo int
	}{
		{name: "Cedar Fire", state: "CA", lat: 37.8, lon: -120.6, acres: 12400, status: "Active", daysAgo: 1},
		{name: "Ridge Fire", state: "CA", lat: 36.4, lon: -121.2, acres: 880, status: "Contained", daysAgo: 3},
		{name: "Canyon Fire", state: "OR", lat: 44.1, lon: -121.4, acres: 5600, status: "Active", daysAgo: 2},
	}

	now := domain.Clock().Now().UTC()
	features := make([]feature, 0, len(fires))
	for i, fire := range fires {
		if state != "" && fire.state != state {
			continue
		}
		discovered := now.AddDate(0, 0, -fire.daysAgo)
		const side = 0.05
		ring := [][]float64{
			{fire.lon, fire.lat},
			{fire.lon + side, fire.lat},
			{fire.lon + side, fire.lat + side},
			{fire.lon, fire.lat + side},
			{fire.lon, fire.lat},
		}
		features = append(features, feature{
			Attributes: map[string]any{
				"OBJECTID":              float64(i + 1),
				"FireName":              fire.name,
				"FireYear":              float64(now.Year()),
				"CalculatedAcres":       fire.acres,
				"POOState":              fire.state,
				"POOCounty":             "Demo County",
				"FireCause":             "Unknown",
				"FireStatus":            fire.status,
				"FireDiscoveryDateTime": float64(discovered.UnixMilli()),
			},
			Geometry: geometry{Rings: [][][]float64{ring}},
		})
	}
	return features
}
