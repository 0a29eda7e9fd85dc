package repository

import (
	"context"
	"errors"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// ErrNotFound is returned by a BlobStore when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ProductSource is the product feed the catalog is loaded from.
type ProductSource interface {
	FindAll(ctx context.Context) ([]entity.Product, error)
}

// ProductRepository is a ProductSource that can also be seeded.
type ProductRepository interface {
	ProductSource
	// Seed inserts initial products if none exist.
	Seed(ctx context.Context, products []entity.Product) error
}

// BlobStore is a durable key-value store holding serialized blobs.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
