package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/order-service/internal/config"
	"github.com/cypherlabdev/order-service/internal/models"
	"github.com/cypherlabdev/order-service/internal/observability"
)

// KafkaEventPublisher publishes order events to a Kafka topic
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(
	producer sarama.SyncProducer,
	topic string,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger.With().Str("component", "kafka_event_publisher").Logger(),
	}
}

// NewSyncProducer connects a synchronous producer to the configured brokers
func NewSyncProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

// Publish sends a single event; the message key is the order ID
func (p *KafkaEventPublisher) Publish(ctx context.Context, event *models.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.EventsFailed.WithLabelValues(event.EventType).Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.AggregateID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("aggregate_type"), Value: []byte(event.AggregateType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.metrics.EventsFailed.WithLabelValues(event.EventType).Inc()
		return fmt.Errorf("failed to send to Kafka: %w", err)
	}

	p.metrics.EventsPublished.WithLabelValues(event.EventType).Inc()
	p.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("published event to Kafka")

	return nil
}

// Close closes the underlying producer
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, *models.OrderEvent) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
