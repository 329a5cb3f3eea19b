// Command validate performs integrity checks on a demo dataset: CSV format,
// timestamp continuity, ignition-window shape, and whether the detection
// rules actually fire on it. Run it after gendemo to confirm a dataset will
// drive a convincing demo.
//
// Usage:
//
//	go run ./cmd/validate -dataset demo_dataset.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/firesight-ai/firesight/internal/ingest"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataset := flag.String("dataset", "demo_dataset.csv", "path to demo dataset CSV")
	lat := flag.Float64("lat", 34.05, "latitude attached to each reading")
	lon := flag.Float64("lon", -118.25, "longitude attached to each reading")
	flag.Parse()

	os.Exit(run(*dataset, *lat, *lon))
}

func run(path string, lat, lon float64) int {
	fmt.Println("=== Demo Dataset Validation ===")
	fmt.Println()

	readings, err := ingest.ReadDemoCSV(path, lat, lon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateContinuity(readings),
		validateRanges(readings),
		validateIgnition(readings),
		validateDetection(readings),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(readings))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateContinuity checks rows are one minute apart with no gaps.
func validateContinuity(readings []domain.Reading) *phase {
	p := &phase{name: "timestamp continuity"}
	if len(readings) == 0 {
		p.errorf("dataset is empty")
		return p
	}
	for i := 1; i < len(readings); i++ {
		gap := readings[i].Timestamp.Sub(readings[i-1].Timestamp)
		if gap != time.Minute {
			p.errorf("row %d: expected 1m gap, got %s (%s -> %s)",
				i+1, gap,
				readings[i-1].Timestamp.Format(time.RFC3339),
				readings[i].Timestamp.Format(time.RFC3339))
		}
	}
	return p
}

// validateRanges checks every reading stays within physically plausible
// bounds for the simulation.
func validateRanges(readings []domain.Reading) *phase {
	p := &phase{name: "value ranges"}
	for i, r := range readings {
		temp := r.Num("temperature")
		humidity := r.Num("humidity")
		co2 := r.Num("co2")
		if temp < 0 || temp > 110 {
			p.errorf("row %d: temperature %.2f out of range", i+2, temp)
		}
		if humidity < 0 || humidity > 100 {
			p.errorf("row %d: humidity %.2f out of range", i+2, humidity)
		}
		if co2 < 300 || co2 > 1200 {
			p.errorf("row %d: co2 %.2f out of range", i+2, co2)
		}
	}
	return p
}

// validateIgnition checks the dataset contains a contiguous smoke window
// whose readings escalate, with the flame flag tripping partway through.
func validateIgnition(readings []domain.Reading) *phase {
	p := &phase{name: "ignition window"}

	first, last := -1, -1
	flames := 0
	for i, r := range readings {
		if !r.Bool("smoke_detected") {
			continue
		}
		if first == -1 {
			first = i
		} else if i != last+1 {
			p.errorf("smoke window not contiguous: gap before row %d", i+2)
		}
		last = i
		if r.Bool("flame") {
			flames++
		}
	}

	if first == -1 {
		p.errorf("no ignition window: smoke flag never set")
		return p
	}
	if flames == 0 {
		p.errorf("flame flag never set inside the smoke window")
	}
	if peak := readings[last].Num("temperature"); peak < domain.SensorTempHigh {
		p.errorf("ignition peak temperature %.2f below high-severity cutoff %.0f",
			peak, domain.SensorTempHigh)
	}
	return p
}

// validateDetection runs the detection rules over the dataset and requires
// at least one high-severity alert.
func validateDetection(readings []domain.Reading) *phase {
	p := &phase{name: "detection outcome"}

	fused := domain.FuseStreams(readings)
	alerts := domain.CorrelateDetections(domain.DetectComprehensive(fused))
	if len(alerts) == 0 {
		p.errorf("no alerts generated from dataset")
		return p
	}
	if level := domain.ThreatLevel(alerts); level != domain.SeverityHigh {
		p.errorf("expected high threat level, got %s", level)
	}
	return p
}
