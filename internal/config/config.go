package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Monitoring region and pipeline cadence.
	RefreshInterval time.Duration
	DataDir         string
	RegionLat       float64
	RegionLon       float64
	RegionRadiusKm  float64
	StateFilter     string

	// NASA FIRMS configuration.
	FIRMSAPIKey         string
	FIRMSDays           int
	FIRMSTimeout        time.Duration
	MODISEnabled        bool
	VIIRSSNPPEnabled    bool
	VIIRSNOAA20Enabled  bool
	VIIRSCombineEnabled bool

	// Interagency fire data sources.
	NIFCEnabled  bool
	IRWINEnabled bool
	NIFCDaysBack int

	// IoT sensor ingestion over MQTT.
	MQTTEnabled  bool
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	// Alert publishing to Kafka.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaAlertTopic string

	// Alert cache. Redis is a pass-through key-value store; when disabled
	// an in-memory TTL cache is used instead.
	CacheTTL     time.Duration
	RedisEnabled bool
	RedisAddr    string

	// Alert history database. Empty path disables persistence.
	AlertDBPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := envDuration("REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	firmsTimeout, err := envDuration("FIRMS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	regionLat, err := envFloat("REGION_LAT", 34.05)
	if err != nil {
		return nil, err
	}
	regionLon, err := envFloat("REGION_LON", -118.25)
	if err != nil {
		return nil, err
	}
	regionRadius, err := envFloat("REGION_RADIUS_KM", 100)
	if err != nil {
		return nil, err
	}
	firmsDays, err := envInt("FIRMS_DAYS", 1)
	if err != nil {
		return nil, err
	}
	nifcDaysBack, err := envInt("NIFC_DAYS_BACK", 7)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshInterval: refreshInterval,
		DataDir:         envOrDefault("DATA_DIR", "data"),
		RegionLat:       regionLat,
		RegionLon:       regionLon,
		RegionRadiusKm:  regionRadius,
		StateFilter:     os.Getenv("STATE_FILTER"),

		FIRMSAPIKey:         os.Getenv("FIRMS_API_KEY"),
		FIRMSDays:           firmsDays,
		FIRMSTimeout:        firmsTimeout,
		MODISEnabled:        envBool("MODIS_ENABLED", true),
		VIIRSSNPPEnabled:    envBool("VIIRS_SNPP_ENABLED", true),
		VIIRSNOAA20Enabled:  envBool("VIIRS_NOAA20_ENABLED", true),
		VIIRSCombineEnabled: envBool("VIIRS_COMBINED_ENABLED", false),

		NIFCEnabled:  envBool("NIFC_ENABLED", true),
		IRWINEnabled: envBool("IRWIN_ENABLED", true),
		NIFCDaysBack: nifcDaysBack,

		MQTTEnabled:  envBool("MQTT_ENABLED", false),
		MQTTBroker:   envOrDefault("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTTopic:    envOrDefault("MQTT_TOPIC", "sensors/#"),
		MQTTClientID: envOrDefault("MQTT_CLIENT_ID", "firesight"),

		KafkaEnabled:    envBool("KAFKA_ENABLED", false),
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "wildfire-alerts"),

		CacheTTL:     cacheTTL,
		RedisEnabled: envBool("REDIS_ENABLED", false),
		RedisAddr:    envOrDefault("REDIS_ADDR", "localhost:6379"),

		AlertDBPath: os.Getenv("ALERT_DB_PATH"),
	}

	if cfg.RegionRadiusKm <= 0 {
		return nil, errors.New("REGION_RADIUS_KM must be positive")
	}
	if cfg.FIRMSDays < 1 || cfg.FIRMSDays > 10 {
		return nil, errors.New("FIRMS_DAYS must be between 1 and 10")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_ENABLED is true but REDIS_ADDR is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1"
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

// parseBrokers splits a comma-separated broker list, trimming whitespace and
// dropping empty entries.
func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
