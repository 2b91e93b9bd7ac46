package repository

import (
	"context"
	"fmt"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/kafka"
)

// KafkaPublisher implements repository.EventPublisher, emitting each
// dispatched canonical report as a JSON event keyed by trading day.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, rep *models.CanonicalReport) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(rep.Day.String()), rep); err != nil {
		return fmt.Errorf("publish report %s: %w", rep.Day, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishReport(context.Context, *models.CanonicalReport) error { return nil }

func (NoopPublisher) Close() error { return nil }
