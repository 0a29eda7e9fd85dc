package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/memory"
)

type unreadableBlobStore struct {
	repository.BlobStore
}

func (unreadableBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("permission denied")
}

func TestCartStore_RestoreAbsent(t *testing.T) {
	store := NewCartStore(memory.NewBlobStore(), "", nil)

	cart := store.Restore(context.Background())
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestCartStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(memory.NewBlobStore(), "my-cart", nil)

	rated := entity.Product{ID: 3, Title: "C", Price: 2.25, Category: "z", Image: "c.png", Description: "third", Rating: &entity.Rating{Rate: 3.9, Count: 120}}
	want := entity.Cart{}.AddItem(productB).AddItem(rated).AddItem(productB)

	require.NoError(t, store.Persist(ctx, want))
	got := store.Restore(ctx)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCartStore_PersistEmptyCart(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	store := NewCartStore(blobs, "", nil)

	require.NoError(t, store.Persist(ctx, nil))

	data, err := blobs.Get(ctx, DefaultCartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCartStore_RestoreFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"malformed json", `[{"id":1,`},
		{"wrong shape", `{"id":1}`},
		{"null", `null`},
		{"zero quantity", `[{"id":1,"title":"A","price":10,"category":"x","image":"","qty":0}]`},
		{"duplicate lines", `[{"id":1,"qty":1},{"id":1,"qty":2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			blobs := memory.NewBlobStore()
			require.NoError(t, blobs.Set(ctx, DefaultCartKey, []byte(tt.blob)))

			cart := NewCartStore(blobs, "", nil).Restore(ctx)
			assert.NotNil(t, cart)
			assert.Empty(t, cart)
		})
	}
}

func TestCartStore_RestoreReadError(t *testing.T) {
	store := NewCartStore(unreadableBlobStore{memory.NewBlobStore()}, "", nil)
	assert.Empty(t, store.Restore(context.Background()))
}

func TestCartStore_PersistError(t *testing.T) {
	store := NewCartStore(failingBlobStore{memory.NewBlobStore()}, "", nil)

	err := store.Persist(context.Background(), entity.Cart{}.AddItem(productA))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist cart")
}
