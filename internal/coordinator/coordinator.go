// Package coordinator orchestrates the external fire-data sources. Each
// enabled source is fetched best-effort: the underlying clients degrade
// to demo data rather than failing, so one broken upstream never stalls
// a monitoring cycle.
package coordinator

import (
	"context"
	"log/slog"

	"github.com/firesight-ai/firesight/internal/adapter/firms"
	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
)

// HotspotSource serves FIRMS-style active-fire readings.
type HotspotSource interface {
	MODISReadings(ctx context.Context, q firms.Query) []domain.Reading
	VIIRSReadings(ctx context.Context, platform string, q firms.Query) []domain.Reading
	CombinedVIIRSReadings(ctx context.Context, q firms.Query) []domain.Reading
}

// InteragencySource serves fire perimeters and incident readings.
type InteragencySource interface {
	PerimeterReadings(ctx context.Context, state string, daysBack int) []domain.Reading
	IncidentReadings(ctx context.Context, state string) []domain.Reading
}

// Coordinator fans out to all enabled satellite and interagency sources
// and returns their combined readings.
type Coordinator struct {
	cfg         *config.Config
	hotspots    HotspotSource
	interagency InteragencySource
	logger      *slog.Logger
}

// New creates a coordinator over the given source clients.
func New(cfg *config.Config, hotspots HotspotSource, interagency InteragencySource, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		cfg:         cfg,
		hotspots:    hotspots,
		interagency: interagency,
		logger:      logger,
	}
}

// Collect fetches every enabled source for the configured region and
// returns the combined reading slice. When combined VIIRS is enabled it
// replaces the two per-platform VIIRS fetches.
func (c *Coordinator) Collect(ctx context.Context) []domain.Reading {
	q := firms.Query{
		Lat:      c.cfg.RegionLat,
		Lon:      c.cfg.RegionLon,
		RadiusKm: c.cfg.RegionRadiusKm,
		Days:     c.cfg.FIRMSDays,
	}

	var all []domain.Reading
	add := func(source string, readings []domain.Reading) {
		c.logger.Debug("source collected", "source", source, "readings", len(readings))
		all = append(all, readings...)
	}

	if c.cfg.MODISEnabled {
		add(domain.SourceMODIS, c.hotspots.MODISReadings(ctx, q))
	}
	if c.cfg.VIIRSCombineEnabled {
		add(domain.SourceVIIRSCombined, c.hotspots.CombinedVIIRSReadings(ctx, q))
	} else {
		if c.cfg.VIIRSSNPPEnabled {
			add(domain.SourceVIIRSSNPP, c.hotspots.VIIRSReadings(ctx, firms.PlatformVIIRSSNPP, q))
		}
		if c.cfg.VIIRSNOAA20Enabled {
			add(domain.SourceVIIRSNOAA20, c.hotspots.VIIRSReadings(ctx, firms.PlatformVIIRSNOAA20, q))
		}
	}
	if c.cfg.NIFCEnabled {
		add(domain.SourceNIFCPerimeter, c.interagency.PerimeterReadings(ctx, c.cfg.StateFilter, c.cfg.NIFCDaysBack))
	}
	if c.cfg.IRWINEnabled {
		add(domain.SourceIRWINIncident, c.interagency.IncidentReadings(ctx, c.cfg.StateFilter))
	}

	c.logger.Info("satellite sources collected", "total", len(all), "by_source", domain.CountBySource(all))
	return all
}
