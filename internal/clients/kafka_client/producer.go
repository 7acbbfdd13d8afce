package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/models"
)

// ResultProducer publishes one event per completed analysis, keyed by video id.
type ResultProducer struct {
	producer *kafka.Producer
	topic    string
}

func NewResultProducer(cfg config.KafkaConfig) (*ResultProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	go logProducerEvents(p.Events())

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &ResultProducer{producer: p, topic: cfg.Topic}, nil
}

// logProducerEvents drains client-level events. Delivery reports go to the
// per-message channel in Publish.
func logProducerEvents(events chan kafka.Event) {
	for e := range events {
		switch ev := e.(type) {
		case kafka.Error:
			slog.Warn("[KafkaClient] Producer error",
				slog.String("code", ev.Code().String()),
				slog.String("error", ev.Error()))
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				slog.Warn("[KafkaClient] Delivery failed",
					slog.String("error", ev.TopicPartition.Error.Error()))
			}
		}
	}
}

func newEventMessage(topic string, event models.AnalysisEvent) (*kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to marshal event: %w", err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.VideoID),
		Value:          value,
		Headers: []kafka.Header{
			{Key: "mode", Value: []byte(event.Mode)},
		},
	}, nil
}

// Publish produces the event and waits for its delivery report.
func (p *ResultProducer) Publish(ctx context.Context, event models.AnalysisEvent) error {
	msg, err := newEventMessage(p.topic, event)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	for i := 0; i < 3; i++ {
		err = p.producer.Produce(msg, delivery)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published analysis event",
		slog.String("topic", p.topic),
		slog.String("video_id", event.VideoID))
	return nil
}

func (p *ResultProducer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
