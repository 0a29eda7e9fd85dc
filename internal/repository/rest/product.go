// Package rest loads the product catalog from a JSON REST endpoint.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

type productSource struct {
	url    string
	client *http.Client
}

// NewProductSource creates a ProductSource reading a JSON array of products
// from url. A nil client means http.DefaultClient.
func NewProductSource(url string, client *http.Client) repository.ProductSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &productSource{url: url, client: client}
}

func (s *productSource) FindAll(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status fetching products: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	var products []entity.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("failed to decode products: payload is not an array")
	}
	return products, nil
}
