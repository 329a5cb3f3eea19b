package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/firesight-ai/firesight/internal/domain"
)

var frameExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ReadCameraDir lists image frames in a directory and returns one camera
// reading per frame, positioned at the camera's fixed location. The frame
// file name is carried in the reading payload for downstream detection;
// the file modification time is used as the capture timestamp.
func ReadCameraDir(dir string, lat, lon float64) ([]domain.Reading, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading camera directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	readings := make([]domain.Reading, 0, len(names))
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("stat camera frame %s: %w", name, err)
		}
		readings = append(readings, domain.Reading{
			Source:    domain.SourceCamera,
			Timestamp: info.ModTime().UTC(),
			Lat:       lat,
			Lon:       lon,
			Data:      map[string]any{"file": name},
		})
	}
	return readings, nil
}
