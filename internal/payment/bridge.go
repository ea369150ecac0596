package payment

import (
	"context"
	"errors"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

var (
	ErrEmptyIntent   = errors.New("payment intent is missing or has zero amount")
	ErrUnknownIntent = errors.New("no payment is awaiting this gateway order")
)

// SettleFunc receives the widget's proof of payment after the user pays.
type SettleFunc func(ctx context.Context, proof domain.PaymentProof) error

// DismissFunc runs when the user closes the widget without paying.
type DismissFunc func()

// WidgetConfig is everything the hosted-checkout widget needs to present
// the payment form for one intent.
type WidgetConfig struct {
	Key            string  `json:"key"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	GatewayOrderID string  `json:"order_id"`
	Prefill        Prefill `json:"prefill"`
}

type Prefill struct {
	Contact string `json:"contact"`
}

// Bridge adapts a third-party hosted-checkout widget. Open registers one
// checkout attempt with a settled and a dismissed continuation; Settle and
// Dismiss deliver the widget's outcome and fire exactly one of the two,
// exactly once. The bridge never verifies payment proof itself.
type Bridge interface {
	Open(intent domain.PaymentIntent, contact string, onSettled SettleFunc, onDismiss DismissFunc) (WidgetConfig, error)
	Settle(ctx context.Context, gatewayOrderID string, proof domain.PaymentProof) error
	Dismiss(gatewayOrderID string) error
}
