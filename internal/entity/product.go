package entity

// Product represents a product in the store.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Rating is the review summary the product feed attaches to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}
