package repository

import (
	"context"
	"fmt"

	domrepo "StockMetrics/internal/domain/repository"
	applogger "StockMetrics/pkg/logger"
)

// KeyedPublisher is the subset of the Kafka producer the publisher needs.
type KeyedPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaEventPublisher implements EventPublisher over a Kafka producer.
// Messages are keyed so one entity's events land on one partition.
type KafkaEventPublisher struct {
	producer KeyedPublisher
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewKafkaEventPublisher(p KeyedPublisher, m domrepo.Metrics, l *applogger.Logger) *KafkaEventPublisher {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	return &KafkaEventPublisher{producer: p, metrics: m, l: l}
}

func (k *KafkaEventPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	if topic == "" {
		return fmt.Errorf("publish: topic is required")
	}
	if err := k.producer.Publish(ctx, topic, []byte(key), value); err != nil {
		k.metrics.RecordError("kafka_publish")
		k.l.Warn("kafka publish failed", applogger.String("topic", topic), applogger.String("key", key), applogger.Error(err))
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	k.metrics.RecordMessageSent(topic)
	return nil
}

// NopEventPublisher drops events when Kafka is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, string, string, interface{}) error { return nil }

var (
	_ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)
	_ domrepo.EventPublisher = NopEventPublisher{}
)
