package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

type kafkaBroker struct {
	brokers []string
	writer  *kafkaGo.Writer
	logger  *slog.Logger
}

// NewKafkaBroker creates a new Kafka publisher and subscriber. The publisher
// shares one writer across topics; close it when done. Nothing is dialed
// until the first write or read.
func NewKafkaBroker(brokers []string, logger *slog.Logger) (messaging.Publisher, messaging.Subscriber) {
	if logger == nil {
		logger = slog.Default()
	}
	kb := &kafkaBroker{
		brokers: brokers,
		logger:  logger,
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
	return kb, kb
}

func (k *kafkaBroker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

func (k *kafkaBroker) Close() error {
	return k.writer.Close()
}

func (k *kafkaBroker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				k.logger.Info("Consumer shutting down", "topic", topic, "group", groupID)
				return
			}
			k.logger.Error("Error reading message", "topic", topic, "group", groupID, "err", err)
			continue
		}

		if err := handler(ctx, msg.Value); err != nil {
			k.logger.Error("Error handling message", "topic", topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
		}
	}
}
