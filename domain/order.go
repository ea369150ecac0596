package domain

// PaymentMethod values use the backend's wire names.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "razorpay"
	PaymentMethodCOD    PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodCOD
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusCodPending OrderStatus = "cod_pending"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Address struct {
	ID         int64  `json:"id,omitempty"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// OrderItem carries the price observed by the client at order time.
// The backend re-validates pricing and is authoritative.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderDraft is the order-creation request sent to the backend.
type OrderDraft struct {
	AddressID     int64         `json:"address_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []OrderItem   `json:"items"`
}

// CreatedOrder is the backend's acknowledgement of order creation.
type CreatedOrder struct {
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}

// PaymentIntent is a short-lived gateway authorization for one checkout
// attempt. Amount is in minor currency units (paise). Never persisted
// beyond the active attempt.
type PaymentIntent struct {
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// PaymentProof holds the fields the hosted checkout returns after the user
// completes payment. Forwarded verbatim to the backend for signature
// verification; never inspected client-side.
type PaymentProof struct {
	OrderID        int64  `json:"order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	GatewayOrderID string `json:"razorpay_order_id"`
	Signature      string `json:"razorpay_signature"`
}

// Profile is the slice of the user profile the checkout flow needs.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
