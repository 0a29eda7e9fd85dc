package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

var (
	productA = entity.Product{ID: 1, Title: "A", Price: 10, Category: "x"}
	productB = entity.Product{ID: 2, Title: "B", Price: 5, Category: "y"}
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "109.95", FormatPrice(109.95))
	assert.Equal(t, "0.30", FormatPrice(0.1+0.2))
}

func TestRenderCart_Golden(t *testing.T) {
	g := goldie.New(t)

	var buf bytes.Buffer
	cart := entity.Cart{}.AddItem(productA).AddItem(productA).AddItem(productB)
	require.NoError(t, renderCart(&buf, cart))
	g.Assert(t, "cart", buf.Bytes())
}

func TestRenderCart_EmptyGolden(t *testing.T) {
	g := goldie.New(t)

	var buf bytes.Buffer
	require.NoError(t, renderCart(&buf, nil))
	g.Assert(t, "cart_empty", buf.Bytes())
}

func TestRenderProducts_Golden(t *testing.T) {
	g := goldie.New(t)

	var buf bytes.Buffer
	require.NoError(t, renderProducts(&buf, []entity.Product{productA, productB}))
	g.Assert(t, "products", buf.Bytes())
}

func TestRenderCategories_Golden(t *testing.T) {
	g := goldie.New(t)

	var buf bytes.Buffer
	require.NoError(t, renderCategories(&buf, []string{"all", "x", "y"}, "x"))
	g.Assert(t, "categories", buf.Bytes())
}

func TestRenderProducts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderProducts(&buf, nil))
	assert.Equal(t, "No products\n", buf.String())
}
