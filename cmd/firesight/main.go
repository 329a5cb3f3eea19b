package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/firesight-ai/firesight/internal/adapter/arcgis"
	"github.com/firesight-ai/firesight/internal/adapter/cache"
	"github.com/firesight-ai/firesight/internal/adapter/firms"
	"github.com/firesight-ai/firesight/internal/adapter/httpapi"
	"github.com/firesight-ai/firesight/internal/adapter/kafkasink"
	"github.com/firesight-ai/firesight/internal/adapter/mqttsensor"
	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/coordinator"
	"github.com/firesight-ai/firesight/internal/datastore"
	"github.com/firesight-ai/firesight/internal/monitor"
	"github.com/firesight-ai/firesight/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hotspots := firms.NewClient(cfg.FIRMSAPIKey, cfg.FIRMSTimeout, metrics, logger)
	interagency := arcgis.NewClient(cfg.FIRMSTimeout, metrics, logger)
	collector := coordinator.New(cfg, hotspots, interagency, logger)

	// Alert cache: Redis when configured, in-memory otherwise.
	var store cache.Store
	if cfg.RedisEnabled {
		redisStore, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = redisStore
		logger.Info("redis cache enabled", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemory(cfg.CacheTTL)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("cache close error", "error", err)
		}
	}()

	// IoT sensor feed (feature-flagged via MQTT_ENABLED).
	var sensors monitor.SensorBuffer
	if cfg.MQTTEnabled {
		source := mqttsensor.New(cfg, logger)
		if err := source.Connect(); err != nil {
			logger.Error("mqtt connection failed", "broker", cfg.MQTTBroker, "error", err)
			os.Exit(1)
		}
		defer source.Close()
		sensors = source
		logger.Info("mqtt sensors enabled", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)
	}

	// Alert history (feature-flagged via ALERT_DB_PATH).
	var archive monitor.AlertArchiver
	var history httpapi.AlertHistory
	if cfg.AlertDBPath != "" {
		db, err := datastore.Open(cfg.AlertDBPath, logger)
		if err != nil {
			logger.Error("alert database open failed", "path", cfg.AlertDBPath, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("alert database close error", "error", err)
			}
		}()
		archive = db
		history = db
		logger.Info("alert history enabled", "path", cfg.AlertDBPath)
	}

	// Alert publishing (feature-flagged via KAFKA_ENABLED).
	var publisher monitor.AlertPublisher
	if cfg.KafkaEnabled {
		sink := kafkasink.NewSink(cfg, logger)
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Error("kafka sink close error", "error", err)
			}
		}()
		publisher = sink
		logger.Info("kafka alert publishing enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	}

	m := monitor.New(cfg, collector, sensors, store, publisher, archive, logger, metrics)
	srv := httpapi.NewServer(cfg, m, store, history, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the monitoring loop.
	go func() {
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
