package entity

// CartLine is one product's entry in the cart.
type CartLine struct {
	Product
	Qty int `json:"qty"`
}

// Subtotal returns price * quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Qty)
}

// Cart is the ordered list of cart lines. Lines keep the order in which
// their product was first added and there is at most one line per product ID.
type Cart []CartLine

// AddItem returns a new cart with p added: the existing line for p.ID gets
// its quantity incremented by one, otherwise a line with quantity 1 is
// appended. The receiver is never modified.
func (c Cart) AddItem(p Product) Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)

	for i := range next {
		if next[i].ID == p.ID {
			next[i].Qty++
			return next
		}
	}
	return append(next, CartLine{Product: p, Qty: 1})
}

// Line returns the line for productID, if any.
func (c Cart) Line(productID int) (CartLine, bool) {
	for _, line := range c {
		if line.ID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// Total is the sum of price * quantity over all lines. No rounding is applied.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.Subtotal()
	}
	return total
}

// Count returns the number of items in the cart, counting quantities.
func (c Cart) Count() int {
	var n int
	for _, line := range c {
		n += line.Qty
	}
	return n
}
