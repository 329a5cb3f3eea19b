// Command replay streams a demo dataset to stdout at accelerated speed,
// one JSON line per row. Each row represents one dataset minute; the speed
// factor is how many dataset minutes pass per real second, so the default
// of 600 replays a full day in about 2.4 seconds.
//
// Usage:
//
//	go run ./cmd/replay demo_dataset.csv -speed 600
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/firesight-ai/firesight/internal/ingest"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	speed := flag.Float64("speed", 600.0, "dataset minutes per real second")
	lat := flag.Float64("lat", 34.05, "latitude attached to each reading")
	lon := flag.Float64("lon", -118.25, "longitude attached to each reading")
	flag.Parse()

	path := "demo_dataset.csv"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if *speed <= 0 {
		return fmt.Errorf("-speed must be positive")
	}

	readings, err := ingest.ReadDemoCSV(path, *lat, *lon)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	var previous time.Time
	for _, r := range readings {
		if !previous.IsZero() {
			deltaMinutes := r.Timestamp.Sub(previous).Minutes()
			domain.Clock().Sleep(time.Duration(deltaMinutes / *speed * float64(time.Second)))
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
		previous = r.Timestamp
	}
	return nil
}
