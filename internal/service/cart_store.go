package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

// DefaultCartKey is the blob key the cart snapshot is stored under.
const DefaultCartKey = "cart"

// CartStore reads and writes cart snapshots in a durable blob store.
type CartStore struct {
	blobs  repository.BlobStore
	key    string
	logger *slog.Logger
}

// NewCartStore creates a CartStore writing under key; empty key means DefaultCartKey.
func NewCartStore(blobs repository.BlobStore, key string, logger *slog.Logger) *CartStore {
	if key == "" {
		key = DefaultCartKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CartStore{blobs: blobs, key: key, logger: logger}
}

// Restore returns the stored cart. A missing, unreadable or corrupt snapshot
// yields an empty cart.
func (s *CartStore) Restore(ctx context.Context) entity.Cart {
	data, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return entity.Cart{}
	}
	if err != nil {
		s.logger.Warn("Failed to read stored cart, starting empty", "key", s.key, "err", err)
		return entity.Cart{}
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn("Stored cart is corrupt, starting empty", "key", s.key, "err", err)
		return entity.Cart{}
	}
	if cart == nil {
		return entity.Cart{}
	}
	if err := validateCart(cart); err != nil {
		s.logger.Warn("Stored cart is invalid, starting empty", "key", s.key, "err", err)
		return entity.Cart{}
	}
	return cart
}

// Persist writes a snapshot of the full cart.
func (s *CartStore) Persist(ctx context.Context, cart entity.Cart) error {
	if cart == nil {
		cart = entity.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func validateCart(cart entity.Cart) error {
	seen := make(map[int]struct{}, len(cart))
	for _, line := range cart {
		if line.Qty < 1 {
			return fmt.Errorf("line for product %d has quantity %d", line.ID, line.Qty)
		}
		if _, dup := seen[line.ID]; dup {
			return fmt.Errorf("duplicate line for product %d", line.ID)
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}
