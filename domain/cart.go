package domain

// LineItem is a product reference plus quantity held in the cart.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Cart is the serializable view of a user's cart, used by the HTTP layer
// and the session cache.
type Cart struct {
	Items     []LineItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  float64    `json:"subtotal"`
}
