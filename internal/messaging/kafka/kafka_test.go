package kafka

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEvent_MarshalError(t *testing.T) {
	publisher, subscriber := NewKafkaBroker([]string{"localhost:9092"}, nil)
	require.NotNil(t, subscriber)
	defer publisher.Close()

	err := publisher.PublishEvent(context.Background(), "cart.events", "key", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal event")
}

func TestConsume_StopsOnCancelledContext(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	publisher, subscriber := NewKafkaBroker([]string{"127.0.0.1:1"}, logger)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	subscriber.Consume(ctx, "cart.events", "storefront-test", func(ctx context.Context, payload []byte) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.Contains(t, logs.String(), "Consumer shutting down")
	assert.Contains(t, logs.String(), "group=storefront-test")
}
