package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firesight-ai/firesight/internal/adapter/cache"
	"github.com/firesight-ai/firesight/internal/adapter/httpapi"
	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/firesight-ai/firesight/internal/monitor"
	"github.com/firesight-ai/firesight/internal/observability"
)

type mockPipeline struct {
	readyErr error
	alerts   []domain.Alert
	summary  monitor.Summary
}

func (m *mockPipeline) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockPipeline) Alerts() []domain.Alert                 { return m.alerts }
func (m *mockPipeline) LatestSummary() monitor.Summary         { return m.summary }

type mockHistory struct {
	alerts []domain.Alert
	counts map[string]int64
	limit  int
	err    error
}

func (m *mockHistory) RecentAlerts(limit int) ([]domain.Alert, error) {
	m.limit = limit
	return m.alerts, m.err
}

func (m *mockHistory) CountBySeverity() (map[string]int64, error) {
	return m.counts, m.err
}

func testServer(t *testing.T, pipeline *mockPipeline, store cache.Store) *httpapi.Server {
	t.Helper()
	return testServerWithHistory(t, pipeline, store, nil)
}

func testServerWithHistory(t *testing.T, pipeline *mockPipeline, store cache.Store, history httpapi.AlertHistory) *httpapi.Server {
	t.Helper()
	cfg := &config.Config{
		HTTPAddr:       ":0",
		RegionLat:      34.05,
		RegionLon:      -118.25,
		RegionRadiusKm: 100,
		MODISEnabled:   true,
	}
	if store == nil {
		store = cache.NewMemory(time.Minute)
	}
	return httpapi.NewServer(cfg, pipeline, store, history, observability.NewMetricsForTesting(), slog.Default())
}

func doRequest(srv *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2025, 5, 10, 13, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	srv := testServer(t, &mockPipeline{}, nil)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2025-05-10T13:00:00Z", body["timestamp"])

	rec = doRequest(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)
	rec := doRequest(srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv = testServer(t, &mockPipeline{readyErr: fmt.Errorf("no cycle yet")}, nil)
	rec = doRequest(srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no cycle yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)
	rec := doRequest(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAlertsServedFromCache(t *testing.T) {
	store := cache.NewMemory(time.Minute)
	cached := `[{"id":"wildfire_detection-cafe","type":"wildfire_detection","severity":"high"}]`
	require.NoError(t, store.Set(context.Background(), cache.KeyAlerts, []byte(cached), time.Minute))

	srv := testServer(t, &mockPipeline{}, store)
	rec := doRequest(srv, http.MethodGet, "/alerts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, cached, rec.Body.String())
}

func TestAlertsFallsBackToPipeline(t *testing.T) {
	pipeline := &mockPipeline{alerts: []domain.Alert{{
		ID:       "wildfire_detection-beef",
		Type:     "wildfire_detection",
		Severity: domain.SeverityMedium,
	}}}

	srv := testServer(t, pipeline, cache.NewMemory(time.Minute))
	rec := doRequest(srv, http.MethodGet, "/alerts", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var alerts []domain.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "wildfire_detection-beef", alerts[0].ID)
}

func TestAlertTypes(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)
	rec := doRequest(srv, http.MethodGet, "/alerts/types", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Types      []string `json:"types"`
		Severities []string `json:"severities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.AlertTypes, body.Types)
	assert.Equal(t, []string{"low", "medium", "high"}, body.Severities)
}

func TestAlertHistory(t *testing.T) {
	history := &mockHistory{
		alerts: []domain.Alert{{
			ID:       "wildfire_detection-f00d",
			Type:     "wildfire_detection",
			Severity: domain.SeverityHigh,
		}},
		counts: map[string]int64{domain.SeverityHigh: 1},
	}

	srv := testServerWithHistory(t, &mockPipeline{}, nil, history)
	rec := doRequest(srv, http.MethodGet, "/alerts/history?limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, history.limit)

	var body struct {
		Alerts []domain.Alert   `json:"alerts"`
		Counts map[string]int64 `json:"counts_by_severity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "wildfire_detection-f00d", body.Alerts[0].ID)
	assert.Equal(t, int64(1), body.Counts[domain.SeverityHigh])
}

func TestAlertHistoryDefaultLimit(t *testing.T) {
	history := &mockHistory{counts: map[string]int64{}}
	srv := testServerWithHistory(t, &mockPipeline{}, nil, history)

	rec := doRequest(srv, http.MethodGet, "/alerts/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, history.limit)

	rec = doRequest(srv, http.MethodGet, "/alerts/history?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/alerts/history?limit=9999", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertHistoryNotEnabled(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)
	rec := doRequest(srv, http.MethodGet, "/alerts/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryFallsBackToPipeline(t *testing.T) {
	pipeline := &mockPipeline{summary: monitor.Summary{
		Timestamp:      time.Date(2025, 5, 10, 13, 0, 0, 0, time.UTC),
		TotalSources:   7,
		CameraCount:    1,
		SatelliteCount: 4,
		SensorCount:    2,
		ThreatLevel:    domain.SeverityMedium,
	}}

	srv := testServer(t, pipeline, cache.NewMemory(time.Minute))
	rec := doRequest(srv, http.MethodGet, "/data/summary", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary monitor.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 7, summary.TotalSources)
	assert.Equal(t, domain.SeverityMedium, summary.ThreatLevel)
}

func TestPredict(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)

	body := `{"lat":34.05,"lon":-118.25,"temperature":42,"humidity":12,"wind_speed":35}`
	rec := doRequest(srv, http.MethodPost, "/predict", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var prediction domain.RiskPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prediction))
	assert.Equal(t, domain.SeverityHigh, prediction.RiskLevel)
	assert.Equal(t, 0.85, prediction.Confidence)
	assert.Equal(t, 5.0, prediction.PredictedSpreadKm)
	assert.Equal(t, 1.0, prediction.TimeToSpreadHours)
}

func TestPredictSpreadWithIgnition(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)

	body := `{"ignition":{"lat":34.05,"lon":-118.25},"weather":{"temperature":38,"humidity":15,"wind_speed":30,"wind_direction":"NE"}}`
	rec := doRequest(srv, http.MethodPost, "/predict/spread", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var predictions []domain.SpreadPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &predictions))
	require.Len(t, predictions, 1)
	assert.Equal(t, 34.05, predictions[0].IgnitionPoint.Lat)
	require.Len(t, predictions[0].Predictions, 3)
	assert.Len(t, predictions[0].Predictions[0].Perimeter, 36)
}

func TestPredictSpreadFromAlerts(t *testing.T) {
	pipeline := &mockPipeline{alerts: []domain.Alert{{
		ID:         "wildfire_detection-feed",
		Type:       "wildfire_detection",
		Severity:   domain.SeverityHigh,
		Confidence: 0.9,
		Location:   domain.Geo{Lat: 34.05, Lon: -118.25},
	}, {
		ID:         "wildfire_detection-dead",
		Type:       "wildfire_detection",
		Severity:   domain.SeverityLow,
		Confidence: 0.9,
		Location:   domain.Geo{Lat: 35.0, Lon: -119.0},
	}}}

	srv := testServer(t, pipeline, cache.NewMemory(time.Minute))
	rec := doRequest(srv, http.MethodPost, "/predict/spread",
		`{"weather":{"temperature":30,"humidity":25,"wind_speed":20,"wind_direction":"W"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var predictions []domain.SpreadPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &predictions))
	require.Len(t, predictions, 1)
	assert.Equal(t, 34.05, predictions[0].IgnitionPoint.Lat)
}

func TestPredictRejectsBadInput(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)

	rec := doRequest(srv, http.MethodPost, "/predict", `{"lat":999,"lon":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/predict", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus(t *testing.T) {
	srv := testServer(t, &mockPipeline{}, nil)
	rec := doRequest(srv, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status       string          `json:"status"`
		Integrations map[string]bool `json:"integrations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "operational", body.Status)
	assert.True(t, body.Integrations["modis"])
	assert.False(t, body.Integrations["kafka"])
}
