// Package mqttsensor ingests IoT sensor telemetry over MQTT. Incoming
// JSON payloads are parsed into unified readings and buffered, keeping
// the latest reading per device; the monitoring loop drains the buffer
// once per cycle.
package mqttsensor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
)

const connectTimeout = 10 * time.Second

// sensorPayload is the wire format published by field sensors.
type sensorPayload struct {
	DeviceID  string `json:"device_id"`
	Timestamp string `json:"timestamp"`
	Location  struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
	Readings map[string]any `json:"readings"`
}

// Source subscribes to the sensor topic and buffers readings.
type Source struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger

	mu     sync.Mutex
	latest map[string]domain.Reading
	order  []string
}

// New builds an MQTT sensor source from config. Call Connect before use.
func New(cfg *config.Config, logger *slog.Logger) *Source {
	s := &Source{
		topic:  cfg.MQTTTopic,
		logger: logger,
		latest: make(map[string]domain.Reading),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			if token := c.Subscribe(s.topic, 1, s.onMessage); token.Wait() && token.Error() != nil {
				logger.Error("mqtt subscribe failed", "topic", s.topic, "error", token.Error())
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("mqtt connection lost", "error", err)
		})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect establishes the broker connection; the subscription happens in
// the on-connect handler so it survives reconnects.
func (s *Source) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timeout after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (s *Source) onMessage(_ mqtt.Client, msg mqtt.Message) {
	reading, deviceID, err := parsePayload(msg.Payload())
	if err != nil {
		s.logger.Warn("dropping malformed sensor payload", "topic", msg.Topic(), "error", err)
		return
	}

	s.buffer(deviceID, reading)
}

func (s *Source) buffer(deviceID string, reading domain.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.latest[deviceID]; !seen {
		s.order = append(s.order, deviceID)
	}
	s.latest[deviceID] = reading
}

// Drain returns the buffered readings in device-arrival order and clears
// the buffer.
func (s *Source) Drain() []domain.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	readings := make([]domain.Reading, 0, len(s.order))
	for _, deviceID := range s.order {
		readings = append(readings, s.latest[deviceID])
	}
	s.latest = make(map[string]domain.Reading)
	s.order = nil
	return readings
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (s *Source) Close() {
	s.client.Disconnect(250)
}

// parsePayload converts a sensor JSON payload into a unified reading.
// A missing timestamp falls back to the current clock time.
func parsePayload(raw []byte) (domain.Reading, string, error) {
	var p sensorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Reading{}, "", fmt.Errorf("parsing sensor payload: %w", err)
	}
	if p.DeviceID == "" {
		return domain.Reading{}, "", fmt.Errorf("sensor payload missing device_id")
	}

	ts := domain.Clock().Now().UTC()
	if p.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			return domain.Reading{}, "", fmt.Errorf("parsing sensor timestamp: %w", err)
		}
		ts = parsed.UTC()
	}

	data := p.Readings
	if data == nil {
		data = map[string]any{}
	}
	data["device_id"] = p.DeviceID

	return domain.Reading{
		Source:    domain.SourceIoTSensor,
		Timestamp: ts,
		Lat:       p.Location.Lat,
		Lon:       p.Location.Lon,
		Data:      data,
	}, p.DeviceID, nil
}
