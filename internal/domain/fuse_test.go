package domain_test

import (
	"testing"
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(minute int) time.Time {
	return time.Date(2025, time.May, 11, 12, minute, 0, 0, time.UTC)
}

func TestFuseStreams_OrdersByTimestamp(t *testing.T) {
	cameras := []domain.Reading{
		{Source: domain.SourceCamera, Timestamp: ts(4)},
	}
	satellites := []domain.Reading{
		{Source: domain.SourceSatellite, Timestamp: ts(0)},
		{Source: domain.SourceSatellite, Timestamp: ts(10)},
	}
	sensors := []domain.Reading{
		{Source: domain.SourceSensor, Timestamp: ts(2)},
	}

	fused := domain.FuseStreams(cameras, satellites, sensors)

	require.Len(t, fused, 4)
	assert.Equal(t, domain.SourceSatellite, fused[0].Source)
	assert.Equal(t, domain.SourceSensor, fused[1].Source)
	assert.Equal(t, domain.SourceCamera, fused[2].Source)
	assert.Equal(t, ts(10), fused[3].Timestamp)
}

func TestFuseStreams_StableForEqualTimestamps(t *testing.T) {
	a := []domain.Reading{{Source: "a", Timestamp: ts(1)}}
	b := []domain.Reading{{Source: "b", Timestamp: ts(1)}}

	fused := domain.FuseStreams(a, b)

	require.Len(t, fused, 2)
	assert.Equal(t, "a", fused[0].Source)
	assert.Equal(t, "b", fused[1].Source)
}

func TestFuseStreams_EmptyInput(t *testing.T) {
	assert.Empty(t, domain.FuseStreams())
	assert.Empty(t, domain.FuseStreams(nil, nil))
}

func TestCountBySource(t *testing.T) {
	fused := []domain.Reading{
		{Source: domain.SourceSensor},
		{Source: domain.SourceSensor},
		{Source: domain.SourceCamera},
	}

	counts := domain.CountBySource(fused)

	assert.Equal(t, 2, counts[domain.SourceSensor])
	assert.Equal(t, 1, counts[domain.SourceCamera])
	assert.Zero(t, counts[domain.SourceSatellite])
}
