package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

var sampleCatalog = []entity.Product{
	{ID: 1, Title: "A", Price: 10, Category: "x"},
	{ID: 2, Title: "B", Price: 5, Category: "y"},
	{ID: 3, Title: "C", Price: 7.5, Category: "x"},
	{ID: 4, Title: "D", Price: 1, Category: "z"},
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"all", "x", "y", "z"}, Categories(sampleCatalog))
}

func TestCategories_EmptyCatalog(t *testing.T) {
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestVisibleProducts_AllIsIdentity(t *testing.T) {
	for _, products := range [][]entity.Product{nil, {}, sampleCatalog} {
		if diff := cmp.Diff(products, VisibleProducts(products, AllCategories)); diff != "" {
			t.Errorf("VisibleProducts(all) mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestVisibleProducts_FiltersByCategory(t *testing.T) {
	for _, category := range Categories(sampleCatalog)[1:] {
		t.Run(category, func(t *testing.T) {
			visible := VisibleProducts(sampleCatalog, category)

			var want int
			for _, p := range sampleCatalog {
				if p.Category == category {
					want++
				}
			}
			assert.Len(t, visible, want)
			for _, p := range visible {
				assert.Equal(t, category, p.Category)
			}
		})
	}
}

func TestVisibleProducts_PreservesCatalogOrder(t *testing.T) {
	visible := VisibleProducts(sampleCatalog, "x")
	assert.Equal(t, []int{1, 3}, []int{visible[0].ID, visible[1].ID})
}

func TestVisibleProducts_UnknownCategoryIsEmpty(t *testing.T) {
	visible := VisibleProducts(sampleCatalog, "nope")
	assert.NotNil(t, visible)
	assert.Empty(t, visible)
}
