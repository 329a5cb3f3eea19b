// Package httpapi exposes the REST API: health and readiness probes,
// Prometheus metrics, current alerts, data summaries, and fire-risk
// predictions.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firesight-ai/firesight/internal/adapter/cache"
	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
	"github.com/firesight-ai/firesight/internal/monitor"
	"github.com/firesight-ai/firesight/internal/observability"
)

// readyTimeout bounds how long a readiness probe may block.
const readyTimeout = 2 * time.Second

// Bounds for the /alerts/history limit query parameter.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Pipeline is the monitor surface the API reads from when the cache
// has no fresh entry.
type Pipeline interface {
	CheckReadiness(ctx context.Context) error
	Alerts() []domain.Alert
	LatestSummary() monitor.Summary
}

// AlertHistory serves persisted alerts from the optional alert store.
type AlertHistory interface {
	RecentAlerts(limit int) ([]domain.Alert, error)
	CountBySeverity() (map[string]int64, error)
}

// Server wraps the echo instance and its dependencies.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	pipeline Pipeline
	store    cache.Store
	history  AlertHistory
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewServer creates the REST API server and registers all routes.
// history may be nil when no alert store is configured.
func NewServer(cfg *config.Config, pipeline Pipeline, store cache.Store, history AlertHistory,
	metrics *observability.Metrics, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		history:  history,
		metrics:  metrics,
		logger:   logger,
	}

	e.GET("/health", s.handleHealth)
	e.GET("/healthz", s.handleHealthz)
	e.GET("/readyz", s.handleReadyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/alerts", s.handleAlerts)
	e.GET("/alerts/types", s.handleAlertTypes)
	e.GET("/alerts/history", s.handleAlertHistory)
	e.GET("/data/summary", s.handleSummary)
	e.POST("/predict", s.handlePredict)
	e.POST("/predict/spread", s.handlePredictSpread)
	e.GET("/status", s.handleStatus)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.cfg.HTTPAddr)
	return s.echo.Start(s.cfg.HTTPAddr)
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP delegates to the echo handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": domain.Clock().Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReadyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	if err := s.pipeline.CheckReadiness(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// handleAlerts serves the cached alert list, falling back to the monitor's
// in-memory snapshot when the cache entry has expired.
func (s *Server) handleAlerts(c echo.Context) error {
	if data, found := s.cached(c.Request().Context(), cache.KeyAlerts); found {
		return c.JSONBlob(http.StatusOK, data)
	}
	return c.JSON(http.StatusOK, s.pipeline.Alerts())
}

func (s *Server) handleAlertTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"types":      domain.AlertTypes,
		"severities": domain.AlertSeverities,
	})
}

// handleAlertHistory serves persisted alerts from the alert store, most
// recent first, with severity totals across the whole history.
func (s *Server) handleAlertHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "alert history not enabled",
		})
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit),
			})
		}
		limit = n
	}

	alerts, err := s.history.RecentAlerts(limit)
	if err != nil {
		s.logger.Error("alert history query failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "alert history unavailable",
		})
	}
	counts, err := s.history.CountBySeverity()
	if err != nil {
		s.logger.Error("alert history count failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "alert history unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"alerts":             alerts,
		"counts_by_severity": counts,
	})
}

func (s *Server) handleSummary(c echo.Context) error {
	if data, found := s.cached(c.Request().Context(), cache.KeySummary); found {
		return c.JSONBlob(http.StatusOK, data)
	}
	return c.JSON(http.StatusOK, s.pipeline.LatestSummary())
}

func (s *Server) handlePredict(c echo.Context) error {
	var in domain.RiskInput
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}
	if in.Lat < -90 || in.Lat > 90 || in.Lon < -180 || in.Lon > 180 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "lat/lon out of range",
		})
	}
	return c.JSON(http.StatusOK, domain.PredictRisk(in))
}

// spreadRequest is the /predict/spread payload. When no ignition point is
// given, forecasts are produced for the current high-severity alerts.
type spreadRequest struct {
	Ignition *domain.Geo          `json:"ignition,omitempty"`
	Weather  domain.SpreadWeather `json:"weather"`
}

func (s *Server) handlePredictSpread(c echo.Context) error {
	var req spreadRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if req.Ignition != nil {
		if req.Ignition.Lat < -90 || req.Ignition.Lat > 90 ||
			req.Ignition.Lon < -180 || req.Ignition.Lon > 180 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "ignition lat/lon out of range",
			})
		}
		return c.JSON(http.StatusOK, []domain.SpreadPrediction{
			domain.PredictSpread(*req.Ignition, req.Weather),
		})
	}

	predictions := domain.PredictSpreadForAlerts(s.pipeline.Alerts(), req.Weather)
	if predictions == nil {
		predictions = []domain.SpreadPrediction{}
	}
	return c.JSON(http.StatusOK, predictions)
}

// handleStatus reports which optional integrations are enabled.
func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "operational",
		"region": map[string]float64{
			"lat":       s.cfg.RegionLat,
			"lon":       s.cfg.RegionLon,
			"radius_km": s.cfg.RegionRadiusKm,
		},
		"integrations": map[string]bool{
			"nasa_firms":     s.cfg.FIRMSAPIKey != "",
			"modis":          s.cfg.MODISEnabled,
			"viirs_snpp":     s.cfg.VIIRSSNPPEnabled,
			"viirs_noaa20":   s.cfg.VIIRSNOAA20Enabled,
			"viirs_combined": s.cfg.VIIRSCombineEnabled,
			"nifc":           s.cfg.NIFCEnabled,
			"irwin":          s.cfg.IRWINEnabled,
			"mqtt":           s.cfg.MQTTEnabled,
			"kafka":          s.cfg.KafkaEnabled,
			"redis":          s.cfg.RedisEnabled,
		},
	})
}

// cached looks up a cache key, recording a hit or miss metric. Lookup
// errors count as misses so a Redis outage degrades to live data.
func (s *Server) cached(ctx context.Context, key string) ([]byte, bool) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", "key", key, "error", err)
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if !found {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return data, true
}
