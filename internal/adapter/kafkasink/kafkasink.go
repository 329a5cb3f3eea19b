// Package kafkasink publishes generated alerts to a Kafka topic for
// downstream consumers such as dispatch systems and archival jobs.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/firesight-ai/firesight/internal/config"
	"github.com/firesight-ai/firesight/internal/domain"
)

// Sink produces alert messages to a Kafka topic.
// It implements monitor.AlertPublisher.
type Sink struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewSink creates a Kafka producer for the configured alert topic.
func NewSink(cfg *config.Config, logger *slog.Logger) *Sink {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Sink{writer: w, logger: logger}
}

// PublishAlerts serializes and publishes a batch of alerts in a single
// WriteMessages call. Messages are keyed by alert ID, so replayed cycles
// producing the same alerts compact cleanly on the topic.
func (s *Sink) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeToMessage(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	s.logger.Debug("alerts published", "count", len(msgs), "topic", s.writer.Topic)
	return nil
}

func (s *Sink) Close() error {
	return s.writer.Close()
}

// serializeToMessage marshals an Alert into a Kafka message.
func serializeToMessage(alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_type", Value: []byte(alert.Type)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "alert_time", Value: []byte(alert.Time.Format(time.RFC3339))},
		},
	}, nil
}
