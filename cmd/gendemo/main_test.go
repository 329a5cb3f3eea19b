package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firesight-ai/firesight/internal/ingest"
)

func generateDataset(t *testing.T, minutes int, seed int64) (time.Time, [][]string) {
	t.Helper()

	start := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "demo_dataset.csv")
	require.NoError(t, generate(path, start, minutes, seed))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return start, rows
}

func parseField(t *testing.T, row []string, col int) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(row[col], 64)
	require.NoError(t, err)
	return v
}

func TestGenerateShape(t *testing.T) {
	const minutes = 800

	start, rows := generateDataset(t, minutes, 1)
	require.Len(t, rows, minutes+1)
	assert.Equal(t, ingest.DemoColumns, rows[0])

	for i, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339, row[0])
		require.NoError(t, err)
		assert.Equal(t, start.Add(time.Duration(i)*time.Minute), ts, "row %d timestamp", i)
	}
}

func TestGenerateIgnitionWindow(t *testing.T) {
	const minutes = 800

	_, rows := generateDataset(t, minutes, 1)

	// The escalation starts twelve hours in and runs for fifteen minutes,
	// endpoints included.
	const windowStart, windowEnd = 720, 735

	for i, row := range rows[1:] {
		temp := parseField(t, row, 1)
		humidity := parseField(t, row, 2)
		co2 := parseField(t, row, 3)
		smoke := row[4]
		flame := row[5]

		inWindow := i >= windowStart && i <= windowEnd
		if inWindow {
			assert.Equal(t, "1", smoke, "row %d smoke", i)
			assert.GreaterOrEqual(t, temp, 25.0, "row %d temperature", i)
			assert.GreaterOrEqual(t, co2, 600.0, "row %d co2", i)
			assert.LessOrEqual(t, humidity, 30.0, "row %d humidity", i)
		} else {
			assert.Equal(t, "0", smoke, "row %d smoke", i)
			assert.Equal(t, "0", flame, "row %d flame", i)
			assert.LessOrEqual(t, temp, 25.0, "row %d temperature", i)
			assert.LessOrEqual(t, co2, 600.0, "row %d co2", i)
		}

		// Flame trips once the escalation is about a third of the way in.
		if i >= windowStart+5 && i <= windowEnd {
			assert.Equal(t, "1", flame, "row %d flame", i)
		} else {
			assert.Equal(t, "0", flame, "row %d flame", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	_, first := generateDataset(t, 60, 42)
	_, second := generateDataset(t, 60, 42)
	assert.Equal(t, first, second)

	_, other := generateDataset(t, 60, 7)
	assert.NotEqual(t, first, other)
}
