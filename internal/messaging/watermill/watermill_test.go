package watermill

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

func TestGoChannelBroker_PublishConsume(t *testing.T) {
	broker := NewGoChannel(nil, true)
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := entity.ItemAddedToCart{SessionID: "s1", ProductID: 7, Title: "Mug", Price: 3.5, Quantity: 2, CartTotal: 7}
	require.NoError(t, broker.PublishEvent(ctx, "cart.events", "s1", event))

	received := make(chan entity.ItemAddedToCart, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		broker.Consume(ctx, "cart.events", "test", func(ctx context.Context, payload []byte) error {
			var got entity.ItemAddedToCart
			if err := json.Unmarshal(payload, &got); err != nil {
				return err
			}
			received <- got
			return nil
		})
	}()

	select {
	case got := <-received:
		assert.Equal(t, event, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestGoChannelBroker_NotPersistentDropsEarlierMessages(t *testing.T) {
	broker := NewGoChannel(nil, false)
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, broker.PublishEvent(ctx, "cart.events", "s1", entity.ItemAddedToCart{ProductID: 1}))

	messages, err := broker.subscriber.Subscribe(ctx, "cart.events")
	require.NoError(t, err)
	require.NoError(t, broker.PublishEvent(ctx, "cart.events", "s1", entity.ItemAddedToCart{ProductID: 2}))

	select {
	case msg := <-messages:
		var got entity.ItemAddedToCart
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		msg.Ack()
		assert.Equal(t, 2, got.ProductID, "only messages published after subscribing are delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestGoChannelBroker_PublishAfterClose(t *testing.T) {
	broker := NewGoChannel(nil, false)
	require.NoError(t, broker.Close())
	require.NoError(t, broker.Close())

	err := broker.PublishEvent(context.Background(), "cart.events", "s1", entity.ItemAddedToCart{})
	assert.ErrorIs(t, err, errClosed)
}

func TestKafkaBroker_ConnectsLazily(t *testing.T) {
	start := time.Now()
	broker := NewKafka([]string{"127.0.0.1:1"}, "storefront-test", nil)
	assert.Less(t, time.Since(start), time.Second)

	err := broker.PublishEvent(context.Background(), "cart.events", "s1", entity.ItemAddedToCart{ProductID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create kafka publisher")

	assert.NoError(t, broker.Close())
}

func TestKafkaBroker_MarshalErrorBeforeConnect(t *testing.T) {
	broker := NewKafka([]string{"127.0.0.1:1"}, "storefront-test", nil)
	defer broker.Close()

	err := broker.PublishEvent(context.Background(), "cart.events", "s1", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal event")
}
