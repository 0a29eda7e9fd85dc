package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	db, err := InitDB(dsn)
	require.NoError(t, err)
	return db
}

func TestBlobStore_Integration(t *testing.T) {
	db := openTestDB(t)
	store := NewBlobStore(db)
	defer store.Close()

	ctx := context.Background()
	key := "cart-" + uuid.NewString()

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte(`[{"id":1,"qty":1}]`)))
	require.NoError(t, store.Set(ctx, key, []byte(`[{"id":1,"qty":2}]`)))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"qty":2}]`, string(got))
}

func TestProductRepository_SeedAndFindAll(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	ctx := context.Background()
	_, err := db.ExecContext(ctx, "TRUNCATE products")
	require.NoError(t, err)

	repo := NewProductRepository(db)
	seed := []entity.Product{
		{ID: 2, Title: "B", Price: 5, Category: "y", Image: "b.png"},
		{ID: 1, Title: "A", Price: 10, Category: "x", Image: "a.png", Rating: &entity.Rating{Rate: 4.1, Count: 7}},
	}
	require.NoError(t, repo.Seed(ctx, seed))
	// Seeding a non-empty table is a no-op.
	require.NoError(t, repo.Seed(ctx, seed[:1]))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, 7, products[0].Rating.Count)
	assert.Nil(t, products[1].Rating)
}
