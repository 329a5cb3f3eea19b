package datastore

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firesight-ai/firesight/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAlert(id string, severity string, at time.Time) domain.Alert {
	return domain.Alert{
		ID:                  id,
		Type:                "thermal_anomaly",
		Severity:            severity,
		Confidence:          0.8,
		Time:                at,
		Location:            domain.Geo{Lat: 34.05, Lon: -118.25},
		RecommendedResponse: domain.ResponseMonitor,
		Details:             map[string]any{"frp": 42.5},
	}
}

func TestSaveAndRecentAlerts(t *testing.T) {
	s := testStore(t)
	base := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	alerts := []domain.Alert{
		testAlert("a-1", domain.SeverityLow, base),
		testAlert("a-2", domain.SeverityHigh, base.Add(time.Hour)),
		testAlert("a-3", domain.SeverityMedium, base.Add(2*time.Hour)),
	}
	require.NoError(t, s.SaveAlerts(alerts))

	got, err := s.RecentAlerts(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a-3", got[0].ID)
	assert.Equal(t, "a-2", got[1].ID)
	assert.Equal(t, domain.SeverityHigh, got[1].Severity)
	assert.Equal(t, 42.5, got[0].Details["frp"])
	assert.Equal(t, base.Add(2*time.Hour), got[0].Time)
}

func TestSaveAlertsUpserts(t *testing.T) {
	s := testStore(t)
	at := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	first := testAlert("a-1", domain.SeverityLow, at)
	require.NoError(t, s.SaveAlerts([]domain.Alert{first}))

	updated := first
	updated.Severity = domain.SeverityHigh
	require.NoError(t, s.SaveAlerts([]domain.Alert{updated}))

	got, err := s.RecentAlerts(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityHigh, got[0].Severity)
}

func TestSaveAlertsEmpty(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveAlerts(nil))

	got, err := s.RecentAlerts(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountBySeverity(t *testing.T) {
	s := testStore(t)
	at := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAlerts([]domain.Alert{
		testAlert("a-1", domain.SeverityHigh, at),
		testAlert("a-2", domain.SeverityHigh, at.Add(time.Minute)),
		testAlert("a-3", domain.SeverityLow, at.Add(2*time.Minute)),
	}))

	counts, err := s.CountBySeverity()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.SeverityHigh])
	assert.Equal(t, int64(1), counts[domain.SeverityLow])
}
