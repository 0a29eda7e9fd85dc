package entity

import "time"

// Event represents a domain event.
type Event interface {
	EventType() string
}

// ItemAddedToCart is emitted when a user drops an item into their cart.
type ItemAddedToCart struct {
	SessionID string    `json:"session_id"`
	ProductID int       `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"` // quantity of the line after the add
	CartTotal float64   `json:"cart_total"`
	AddedAt   time.Time `json:"added_at"`
}

func (e ItemAddedToCart) EventType() string { return "ItemAddedToCart" }
