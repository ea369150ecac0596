package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// Order is a placed order as the backend reports it on the history page.
// Decimal amounts arrive as strings.
type Order struct {
	ID            int64       `json:"id"`
	AddressID     int64       `json:"address"`
	Subtotal      float64     `json:"subtotal,string"`
	ShippingFee   float64     `json:"shipping_fee,string"`
	Total         float64     `json:"total,string"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
	CreatedAt     string      `json:"created_at"`
}

type OrderLine struct {
	ProductID    int64   `json:"product"`
	ProductTitle string  `json:"product_title"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price,string"`
}

// CreateOrder submits the cart snapshot with the resolved address and
// payment method. The backend captures the client-observed prices and is
// authoritative on the final total, which it returns as a decimal string.
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.CreatedOrder, error) {
	var res struct {
		OrderID int64  `json:"order_id"`
		Total   string `json:"total"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkout/create-order/", draft, &res); err != nil {
		return domain.CreatedOrder{}, err
	}

	total, err := strconv.ParseFloat(res.Total, 64)
	if err != nil {
		return domain.CreatedOrder{}, fmt.Errorf("parse order total %q: %w", res.Total, err)
	}
	return domain.CreatedOrder{OrderID: res.OrderID, Total: total}, nil
}

// ListOrders returns the user's order history, newest first. Accepts both
// the plain-array and pagination-envelope list shapes.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/user/orders/", nil, &raw); err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(raw, &orders); err == nil {
		return orders, nil
	}

	var envelope struct {
		Results []Order `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return envelope.Results, nil
}
