package domain_test

import (
	"testing"

	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAlerts_Structure(t *testing.T) {
	detections := []domain.Detection{
		{
			Type:      "detection",
			Severity:  domain.SeverityHigh,
			Timestamp: ts(0),
			Lat:       34.05,
			Lon:       -118.25,
			Details:   map[string]any{"thermal": 75.0},
		},
		{
			Type:      "detection",
			Severity:  domain.SeverityMedium,
			Timestamp: ts(1),
			Lat:       35.0,
			Lon:       -119.0,
		},
	}

	alerts := domain.GenerateAlerts(detections)

	require.Len(t, alerts, 2)
	assert.Equal(t, domain.ResponseImmediate, alerts[0].RecommendedResponse)
	assert.Equal(t, domain.ResponseMonitor, alerts[1].RecommendedResponse)
	assert.Equal(t, domain.Geo{Lat: 34.05, Lon: -118.25}, alerts[0].Location)
	assert.Equal(t, 75.0, alerts[0].Details["thermal"])
	assert.NotEmpty(t, alerts[0].ID)
}

func TestGenerateAlerts_DeterministicIDs(t *testing.T) {
	d := domain.Detection{
		Type:      "detection",
		Severity:  domain.SeverityHigh,
		Timestamp: ts(0),
		Lat:       34.05,
		Lon:       -118.25,
	}

	first := domain.GenerateAlerts([]domain.Detection{d})
	second := domain.GenerateAlerts([]domain.Detection{d})

	require.Len(t, first, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Contains(t, first[0].ID, "detection-")
}

func TestGenerateAlerts_IDChangesWithLocation(t *testing.T) {
	a := domain.Detection{Type: "detection", Timestamp: ts(0), Lat: 34.05, Lon: -118.25}
	b := a
	b.Lat = 34.06

	alerts := domain.GenerateAlerts([]domain.Detection{a, b})

	require.Len(t, alerts, 2)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)
}

func TestThreatLevel(t *testing.T) {
	cases := []struct {
		name   string
		alerts []domain.Alert
		want   string
	}{
		{name: "no alerts", alerts: nil, want: domain.SeverityLow},
		{
			name:   "medium only",
			alerts: []domain.Alert{{Severity: domain.SeverityMedium}},
			want:   domain.SeverityMedium,
		},
		{
			name: "high wins",
			alerts: []domain.Alert{
				{Severity: domain.SeverityMedium},
				{Severity: domain.SeverityHigh},
				{Severity: domain.SeverityLow},
			},
			want: domain.SeverityHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ThreatLevel(tc.alerts))
		})
	}
}

func TestMaxSeverity_UnknownLabelsRankLowest(t *testing.T) {
	assert.Equal(t, domain.SeverityLow, domain.MaxSeverity(domain.SeverityLow, "bogus"))
	assert.Equal(t, domain.SeverityHigh, domain.MaxSeverity("bogus", domain.SeverityHigh))
}
