package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productA = Product{ID: 1, Title: "A", Price: 10, Category: "x"}
	productB = Product{ID: 2, Title: "B", Price: 5, Category: "y"}
)

func TestCartAddItem_SameProductTwice(t *testing.T) {
	cart := Cart{}.AddItem(productA).AddItem(productA)

	want := Cart{{Product: productA, Qty: 2}}
	if diff := cmp.Diff(want, cart); diff != "" {
		t.Errorf("cart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 20.0, cart.Total())
}

func TestCartAddItem_AppendsInFirstSeenOrder(t *testing.T) {
	cart := Cart{}.AddItem(productB).AddItem(productA).AddItem(productB)

	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].ID)
	assert.Equal(t, 2, cart[0].Qty)
	assert.Equal(t, 1, cart[1].ID)
	assert.Equal(t, 1, cart[1].Qty)
}

func TestCartAddItem_DoesNotMutateReceiver(t *testing.T) {
	original := Cart{}.AddItem(productA)
	_ = original.AddItem(productA)
	_ = original.AddItem(productB)

	require.Len(t, original, 1)
	assert.Equal(t, 1, original[0].Qty)
}

func TestCartAddItem_NilCart(t *testing.T) {
	var cart Cart
	cart = cart.AddItem(productA)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Qty)
}

func TestCartTotal(t *testing.T) {
	tests := []struct {
		name string
		cart Cart
		want float64
	}{
		{"empty", nil, 0},
		{"single line", Cart{{Product: productA, Qty: 3}}, 30},
		{"two lines", Cart{{Product: productA, Qty: 1}, {Product: productB, Qty: 4}}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want float64
			for _, line := range tt.cart {
				want += line.Price * float64(line.Qty)
			}
			assert.Equal(t, want, tt.cart.Total())
			assert.Equal(t, tt.want, tt.cart.Total())
		})
	}
}

func TestCartTotal_ZeroPriceProduct(t *testing.T) {
	free := Product{ID: 9, Title: "Sticker", Price: 0, Category: "x"}
	cart := Cart{}.AddItem(productA)
	before := cart.Total()

	cart = cart.AddItem(free).AddItem(free)

	assert.Len(t, cart, 2)
	assert.Equal(t, 3, cart.Count())
	assert.Equal(t, before, cart.Total())
}

func TestCartLine(t *testing.T) {
	cart := Cart{}.AddItem(productA)

	line, ok := cart.Line(1)
	require.True(t, ok)
	assert.Equal(t, "A", line.Title)

	_, ok = cart.Line(2)
	assert.False(t, ok)
}

func TestCartJSONShape(t *testing.T) {
	cart := Cart{}.AddItem(productA).AddItem(productA)

	data, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"A","price":10,"category":"x","image":"","qty":2}]`, string(data))
}
