// Package catalog holds the pure views derived from a loaded product list.
package catalog

import "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"

// AllCategories is the reserved category label meaning "no filter applied".
const AllCategories = "all"

// Categories returns AllCategories followed by the distinct categories of
// products in the order they are first seen.
func Categories(products []entity.Product) []string {
	categories := []string{AllCategories}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// VisibleProducts returns the products shown for the selected category.
// AllCategories returns products unchanged; any other label returns the
// products in that category, in catalog order.
func VisibleProducts(products []entity.Product, selected string) []entity.Product {
	if selected == AllCategories {
		return products
	}

	visible := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Category == selected {
			visible = append(visible, p)
		}
	}
	return visible
}
