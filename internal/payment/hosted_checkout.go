package payment

import (
	"context"
	"log"
	"sync"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// HostedCheckout implements Bridge for a Razorpay-style hosted widget. The
// widget itself runs in the user's browser; this side issues the widget
// configuration and routes the browser's settled/dismissed notification to
// the continuation registered at Open time.
type HostedCheckout struct {
	keyID       string
	merchant    string
	description string

	mu      sync.Mutex
	pending map[string]*pendingIntent // keyed by gateway order id
}

type pendingIntent struct {
	onSettled SettleFunc
	onDismiss DismissFunc
}

func NewHostedCheckout(keyID, merchant, description string) *HostedCheckout {
	return &HostedCheckout{
		keyID:       keyID,
		merchant:    merchant,
		description: description,
		pending:     make(map[string]*pendingIntent),
	}
}

func (h *HostedCheckout) Open(intent domain.PaymentIntent, contact string, onSettled SettleFunc, onDismiss DismissFunc) (WidgetConfig, error) {
	if intent.GatewayOrderID == "" || intent.Amount <= 0 {
		return WidgetConfig{}, ErrEmptyIntent
	}

	h.mu.Lock()
	h.pending[intent.GatewayOrderID] = &pendingIntent{
		onSettled: onSettled,
		onDismiss: onDismiss,
	}
	h.mu.Unlock()

	return WidgetConfig{
		Key:            h.keyID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
		Name:           h.merchant,
		Description:    h.description,
		GatewayOrderID: intent.GatewayOrderID,
		Prefill:        Prefill{Contact: contact},
	}, nil
}

// Settle fires the settled continuation for the gateway order. A second
// delivery of the same notification finds nothing pending and returns
// ErrUnknownIntent.
func (h *HostedCheckout) Settle(ctx context.Context, gatewayOrderID string, proof domain.PaymentProof) error {
	p := h.take(gatewayOrderID)
	if p == nil {
		return ErrUnknownIntent
	}
	return p.onSettled(ctx, proof)
}

// Dismiss fires the dismissed continuation for the gateway order.
func (h *HostedCheckout) Dismiss(gatewayOrderID string) error {
	p := h.take(gatewayOrderID)
	if p == nil {
		return ErrUnknownIntent
	}
	log.Printf("payment widget dismissed for gateway order %s", gatewayOrderID)
	p.onDismiss()
	return nil
}

// take removes and returns the pending intent, guaranteeing the
// continuations fire at most once.
func (h *HostedCheckout) take(gatewayOrderID string) *pendingIntent {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.pending[gatewayOrderID]
	delete(h.pending, gatewayOrderID)
	return p
}
