// Package kafka publishes booking notices to a topic for downstream consumers.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Shivanand-hulikatti/care-connect/internal/config"
)

// Producer writes keyed messages to the configured notice topic.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns a producer for cfg.Topic. Brokers are not contacted
// until the first Publish.
func NewProducer(cfg config.KafkaConfig) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes one message. Messages with the same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	const op = "kafka.Producer.Publish"

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	const op = "kafka.Producer.Close"

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
