package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

func TestBlobStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "cart")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Set(ctx, "cart", []byte(`[{"id":1,"qty":1}]`)))
	require.NoError(t, store.Set(ctx, "cart", []byte(`[{"id":1,"qty":2}]`)))

	got, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"qty":2}]`, string(got))
}

func TestBlobStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "cart", []byte(`[]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}
