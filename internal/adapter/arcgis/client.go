// Package arcgis queries the interagency wildfire feature services:
// NIFC fire perimeters and IRWIN incidents, both exposed as ArcGIS
// feature-service query endpoints. Failures fall back to deterministic
// demo features so the pipeline keeps flowing.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/firesight-ai/firesight/internal/observability"
)

const (
	nifcURL  = "https://services3.arcgis.com/T4QMspbfLg3qTGWY/arcgis/rest/services/WFIGS_Interagency_Perimeters_to_Date/FeatureServer/0/query"
	irwinURL = "https://services1.arcgis.com/Hp6G80Pky0om7QvQ/arcgis/rest/services/IRWIN_to_Inciweb_View/FeatureServer/0/query"
)

// Client queries the NIFC and IRWIN feature services.
type Client struct {
	httpClient *http.Client
	nifcURL    string
	irwinURL   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an interagency fire data client. No API key is
// required; both services are public.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		nifcURL:    nifcURL,
		irwinURL:   irwinURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// feature service response types

type queryResponse struct {
	Features []feature `json:"features"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type feature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	Rings [][][]float64 `json:"rings"`
}

// query runs one feature-service query with the standard out parameters.
func (c *Client) query(ctx context.Context, endpoint, where string) ([]feature, error) {
	params := url.Values{
		"where":     {where},
		"outFields": {"*"},
		"outSR":     {"4326"},
		"f":         {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feature query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feature service error: status %d: %s", resp.StatusCode, body)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// The service reports errors in a 200 body.
	if decoded.Error != nil {
		return nil, fmt.Errorf("feature service error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	return decoded.Features, nil
}

// attribute accessors; feature attributes arrive as untyped JSON.

func attrStr(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func attrNum(attrs map[string]any, key string) float64 {
	f, _ := attrs[key].(float64)
	return f
}

// attrTime converts an epoch-milliseconds attribute to UTC time.
func attrTime(attrs map[string]any, key string) (time.Time, bool) {
	ms, ok := attrs[key].(float64)
	if !ok || ms == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
