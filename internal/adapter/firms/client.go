// Package firms fetches active-fire detections from the NASA FIRMS area
// API and converts them into unified readings. Without an API key, or
// when a request fails, the client falls back to a deterministic demo
// grid around the query center so the pipeline keeps producing data.
package firms

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/firesight-ai/firesight/internal/observability"
)

// Satellite platforms accepted by the area API. The NRT/SP processing
// suffix is appended based on the query look-back window.
const (
	PlatformMODIS       = "MODIS"
	PlatformVIIRSSNPP   = "VIIRS_SNPP"
	PlatformVIIRSNOAA20 = "VIIRS_NOAA20"
)

// nrtMaxDays is the longest look-back served by near-real-time products;
// older windows come from standard processing.
const nrtMaxDays = 2

// Query describes an area request: a center point, search radius, and
// look-back window in days (1-10).
type Query struct {
	Lat      float64
	Lon      float64
	RadiusKm float64
	Days     int
}

// Client talks to the NASA FIRMS area API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a FIRMS area API client. An empty apiKey puts the
// client in demo mode: all fetches return the deterministic fallback grid.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://firms.modaps.eosdis.nasa.gov/api/area",
		metrics: metrics,
		logger:  logger,
	}
}

// SourceFor returns the area API source parameter for a platform and
// look-back window: near-real-time for short windows, standard
// processing beyond.
func SourceFor(platform string, days int) string {
	if days <= nrtMaxDays {
		return platform + "_NRT"
	}
	return platform + "_SP"
}

// Hotspot is one active-fire detection from the area API.
type Hotspot struct {
	Lat        float64
	Lon        float64
	Acquired   time.Time
	Confidence string // numeric "0"-"100" for MODIS, low/nominal/high for VIIRS
	FRP        float64
	Brightness float64 // MODIS brightness or VIIRS bright_ti4, kelvin
	BrightTI5  float64
	Scan       float64
	Track      float64
	Satellite  string
	Instrument string
	DayNight   string

	// Populated by MergeNearby for combined detections.
	Satellites     []string
	DetectionCount int
}

// ActiveFires queries the area API for one platform. Demo mode and
// request failures degrade to the deterministic fallback grid.
func (c *Client) ActiveFires(ctx context.Context, platform string, q Query) []Hotspot {
	source := strings.ToLower(platform)

	if c.apiKey == "" {
		c.logger.Warn("FIRMS API key not set, using demo data", "platform", platform)
		c.metrics.SourceFetches.WithLabelValues(source, "fallback").Inc()
		return demoHotspots(platform, q)
	}

	start := time.Now()
	hotspots, err := c.fetch(ctx, platform, q)
	c.metrics.SourceDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Error("FIRMS fetch failed, using demo data", "platform", platform, "error", err)
		c.metrics.SourceFetches.WithLabelValues(source, "fallback").Inc()
		return demoHotspots(platform, q)
	}
	c.metrics.SourceFetches.WithLabelValues(source, "success").Inc()
	return hotspots
}

func (c *Client) fetch(ctx context.Context, platform string, q Query) ([]Hotspot, error) {
	params := url.Values{
		"source": {SourceFor(platform, q.Days)},
		"lat":    {strconv.FormatFloat(q.Lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(q.Lon, 'f', -1, 64)},
		"radius": {strconv.FormatFloat(q.RadiusKm, 'f', -1, 64)},
		"days":   {strconv.Itoa(q.Days)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/csv?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("area request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("FIRMS API error: status %d: %s", resp.StatusCode, body)
	}

	return parseAreaCSV(resp.Body)
}

// parseAreaCSV decodes the area API CSV body. Unknown columns are ignored
// and malformed rows skipped, since the upstream schema varies by product.
func parseAreaCSV(r io.Reader) ([]Hotspot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading FIRMS csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["latitude"]; !ok {
		return nil, fmt.Errorf("FIRMS csv missing latitude column")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	num := func(row []string, name string) float64 {
		f, _ := strconv.ParseFloat(field(row, name), 64)
		return f
	}

	var hotspots []Hotspot
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading FIRMS csv row: %w", err)
		}

		acquired, err := parseAcquisition(field(row, "acq_date"), field(row, "acq_time"))
		if err != nil {
			continue
		}

		brightness := num(row, "brightness")
		if brightness == 0 {
			brightness = num(row, "bright_ti4")
		}

		hotspots = append(hotspots, Hotspot{
			Lat:        num(row, "latitude"),
			Lon:        num(row, "longitude"),
			Acquired:   acquired,
			Confidence: field(row, "confidence"),
			FRP:        num(row, "frp"),
			Brightness: brightness,
			BrightTI5:  num(row, "bright_ti5"),
			Scan:       num(row, "scan"),
			Track:      num(row, "track"),
			Satellite:  field(row, "satellite"),
			Instrument: field(row, "instrument"),
			DayNight:   field(row, "daynight"),
		})
	}
	return hotspots, nil
}

// parseAcquisition combines acq_date with acq_time, which MODIS encodes
// as HHMM and VIIRS as HH:MM.
func parseAcquisition(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("missing acq_date")
	}
	if !strings.Contains(clock, ":") {
		if len(clock) == 4 {
			clock = clock[:2] + ":" + clock[2:]
		} else {
			clock = "00:00"
		}
	}
	return time.Parse(time.RFC3339, fmt.Sprintf("%sT%s:00Z", date, clock))
}
