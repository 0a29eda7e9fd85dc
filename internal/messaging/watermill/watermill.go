// Package watermill publishes and consumes events through a Watermill
// Pub/Sub: in-process Go channels or Kafka via watermill-kafka.
package watermill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

// partitionKeyMetadata is the message metadata field carrying the event key.
const partitionKeyMetadata = "partition_key"

// Broker adapts a Watermill publisher and subscriber to the messaging interfaces.
// For Kafka the underlying clients are created on first use, so building a
// Broker never dials the cluster.
type Broker struct {
	newPublisher  func() (message.Publisher, error)
	newSubscriber func() (message.Subscriber, error)
	shared        bool // publisher and subscriber are the same Pub/Sub
	logger        *slog.Logger

	mu         sync.Mutex
	publisher  message.Publisher
	subscriber message.Subscriber
	closed     bool
}

var (
	_ messaging.Publisher  = (*Broker)(nil)
	_ messaging.Subscriber = (*Broker)(nil)
)

// NewGoChannel creates an in-process broker. With persistent set, published
// messages are kept in memory so that subscribers joining later still
// receive them; nothing is ever evicted.
func NewGoChannel(logger *slog.Logger, persistent bool) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{Persistent: persistent},
		watermill.NewSlogLogger(logger),
	)
	return &Broker{publisher: pubSub, subscriber: pubSub, shared: true, logger: logger}
}

// NewKafka creates a broker backed by Kafka through watermill-kafka. groupID
// is the consumer group used by Consume. The publisher connects on the first
// PublishEvent and the subscriber on the first Consume.
func NewKafka(brokers []string, groupID string, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := kafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
		return msg.Metadata.Get(partitionKeyMetadata), nil
	})

	return &Broker{
		logger: logger,
		newPublisher: func() (message.Publisher, error) {
			pubConfig := kafka.DefaultSaramaSyncPublisherConfig()
			pubConfig.ClientID = "storefront"
			pubConfig.Producer.RequiredAcks = sarama.WaitForAll

			publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
				Brokers:               brokers,
				Marshaler:             marshaler,
				OverwriteSaramaConfig: pubConfig,
			}, wmLogger)
			if err != nil {
				return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
			}
			return publisher, nil
		},
		newSubscriber: func() (message.Subscriber, error) {
			subConfig := kafka.DefaultSaramaSubscriberConfig()
			subConfig.ClientID = "storefront"
			subConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

			subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
				Brokers:               brokers,
				Unmarshaler:           marshaler,
				OverwriteSaramaConfig: subConfig,
				ConsumerGroup:         groupID,
			}, wmLogger)
			if err != nil {
				return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
			}
			return subscriber, nil
		},
	}
}

// errClosed is returned by PublishEvent after Close.
var errClosed = errors.New("broker closed")

func (b *Broker) getPublisher() (message.Publisher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	if b.publisher == nil {
		publisher, err := b.newPublisher()
		if err != nil {
			return nil, err
		}
		b.publisher = publisher
	}
	return b.publisher, nil
}

func (b *Broker) getSubscriber() (message.Subscriber, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	if b.subscriber == nil {
		subscriber, err := b.newSubscriber()
		if err != nil {
			return nil, err
		}
		b.subscriber = subscriber
	}
	return b.subscriber, nil
}

func (b *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publisher, err := b.getPublisher()
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(partitionKeyMetadata, key)
	msg.SetContext(ctx)

	return publisher.Publish(topic, msg)
}

// Consume subscribes to topic and calls handler for every message until ctx
// is cancelled. The consumer group is fixed when the broker is created, so
// groupID is only used for logging.
func (b *Broker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	subscriber, err := b.getSubscriber()
	if err != nil {
		b.logger.Error("Failed to create subscriber", "topic", topic, "err", err)
		return
	}

	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		b.logger.Error("Failed to subscribe", "topic", topic, "err", err)
		return
	}

	for msg := range messages {
		if err := handler(ctx, msg.Payload); err != nil {
			b.logger.Error("Error handling message", "topic", topic, "group", groupID, "err", err)
		}
		msg.Ack()
	}
	b.logger.Info("Consumer shutting down", "topic", topic)
}

// Close closes whichever clients were created.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var pubErr, subErr error
	if b.publisher != nil {
		pubErr = b.publisher.Close()
	}
	if b.subscriber != nil && !b.shared {
		subErr = b.subscriber.Close()
	}
	return errors.Join(pubErr, subErr)
}
