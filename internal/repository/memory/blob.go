// Package memory provides an in-process BlobStore.
package memory

import (
	"context"
	"sync"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

// BlobStore keeps blobs in a map. The zero value is not usable; use NewBlobStore.
type BlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBlobStore creates an empty in-memory store.
func NewBlobStore() *BlobStore {
	return &BlobStore{data: make(map[string][]byte)}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *BlobStore) Close() error { return nil }

var _ repository.BlobStore = (*BlobStore)(nil)
