package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Event is one audit record for a mutating expense operation.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"` // created | updated | deleted
	EntityType string    `json:"entity_type"`
	EntityGuid string    `json:"entity_guid"`
	Actor      string    `json:"actor"`
	ClientIP   string    `json:"client_ip"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes audit events.
type Producer interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// KafkaConfig contains configuration for the Kafka audit producer
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

// DefaultKafkaConfig returns a default producer configuration
func DefaultKafkaConfig(brokers []string, topic string) *KafkaConfig {
	return &KafkaConfig{
		Brokers:  brokers,
		Topic:    topic,
		RetryMax: 3,
		Timeout:  10 * time.Second,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates a synchronous Kafka audit producer.
func NewKafkaProducer(config *KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps one entity's audit trail ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    config.Topic,
	}, nil
}

func (p *kafkaProducer) Publish(_ context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EntityGuid),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

// NopProducer drops every event. Used when the audit stream is
// disabled and in tests.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, *Event) error { return nil }
func (NopProducer) Close() error                          { return nil }
