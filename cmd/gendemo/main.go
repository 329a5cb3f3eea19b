// Command gendemo writes a simulated multi-sensor dataset with a fire
// ignition event, in the CSV format the monitor and replay tools consume.
// Twelve hours in, sensor readings escalate over a fifteen-minute window:
// temperature climbs, humidity drops, CO2 rises, and the smoke and flame
// flags trip.
//
// Usage:
//
//	go run ./cmd/gendemo -out demo_dataset.csv -start 2025-05-11T00:00:00Z
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/firesight-ai/firesight/internal/ingest"
)

const (
	ignitionDelay  = 12 * time.Hour
	ignitionLength = 15 * time.Minute
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "demo_dataset.csv", "output CSV path")
	startFlag := flag.String("start", "2025-05-11T00:00:00Z", "dataset start time (RFC3339)")
	minutes := flag.Int("minutes", 1440, "number of one-minute rows to generate")
	seed := flag.Int64("seed", 1, "random seed for baseline readings")
	flag.Parse()

	start, err := time.Parse(time.RFC3339, *startFlag)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	if err := generate(*out, start, *minutes, *seed); err != nil {
		return err
	}
	log.Printf("dataset written to %s", *out)
	return nil
}

// generate writes one row per minute. Baseline readings are drawn from a
// seeded RNG so repeated runs with the same seed produce identical files.
func generate(path string, start time.Time, minutes int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(seed))
	ignitionStart := start.Add(ignitionDelay)
	ignitionEnd := ignitionStart.Add(ignitionLength)

	w := csv.NewWriter(f)
	if err := w.Write(ingest.DemoColumns); err != nil {
		return err
	}

	current := start
	for i := 0; i < minutes; i++ {
		temp := uniform(rng, 18, 25)
		humidity := uniform(rng, 35, 55)
		co2 := uniform(rng, 400, 600)
		smoke, flame := 0, 0

		if !current.Before(ignitionStart) && !current.After(ignitionEnd) {
			progress := current.Sub(ignitionStart).Seconds() / ignitionLength.Seconds()
			temp = round2(25 + 75*progress)
			humidity = round2(30 - 20*progress)
			co2 = round2(600 + 500*progress)
			smoke = 1
			if progress > 0.3 {
				flame = 1
			}
		}

		row := []string{
			current.Format(time.RFC3339),
			strconv.FormatFloat(temp, 'f', 2, 64),
			strconv.FormatFloat(humidity, 'f', 2, 64),
			strconv.FormatFloat(co2, 'f', 2, 64),
			strconv.Itoa(smoke),
			strconv.Itoa(flame),
		}
		if err := w.Write(row); err != nil {
			return err
		}
		current = current.Add(time.Minute)
	}

	w.Flush()
	return w.Error()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return round2(lo + rng.Float64()*(hi-lo))
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
