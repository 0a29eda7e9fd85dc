package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

// CatalogLoader fetches the product feed and checks it before the session
// accepts it.
type CatalogLoader struct {
	source  repository.ProductSource
	timeout time.Duration
	logger  *slog.Logger
}

// NewCatalogLoader creates a loader over source. A zero timeout means the
// fetch is bounded only by the caller's context.
func NewCatalogLoader(source repository.ProductSource, timeout time.Duration, logger *slog.Logger) *CatalogLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogLoader{source: source, timeout: timeout, logger: logger}
}

// Load returns the whole catalog or a *LoadError. There are no partial results.
func (l *CatalogLoader) Load(ctx context.Context) ([]entity.Product, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	products, err := l.source.FindAll(ctx)
	if err != nil {
		return nil, &LoadError{cause: err}
	}
	if err := validateCatalog(products); err != nil {
		return nil, &LoadError{cause: err}
	}

	l.logger.Debug("Catalog fetched", "products", len(products))
	return products, nil
}

func validateCatalog(products []entity.Product) error {
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Price < 0 {
			return fmt.Errorf("product %d has negative price %v", p.ID, p.Price)
		}
	}
	return nil
}
