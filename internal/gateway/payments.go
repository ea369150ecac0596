package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// CreatePaymentIntent asks the backend to open a hosted-checkout order for
// an already-created shop order. Amount comes back in minor units.
func (c *Client) CreatePaymentIntent(ctx context.Context, orderID int64) (domain.PaymentIntent, error) {
	req := struct {
		OrderID int64 `json:"order_id"`
	}{OrderID: orderID}

	var res struct {
		GatewayOrderID string `json:"razorpay_order_id"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkout/razorpay/create/", req, &res); err != nil {
		return domain.PaymentIntent{}, err
	}

	return domain.PaymentIntent{
		OrderID:        orderID,
		GatewayOrderID: res.GatewayOrderID,
		Amount:         res.Amount,
		Currency:       res.Currency,
	}, nil
}

// VerifyPayment forwards the widget's proof of payment verbatim. The backend
// checks the gateway signature; a rejection is reported as
// ErrVerificationRejected and the order stays pending server-side.
func (c *Client) VerifyPayment(ctx context.Context, proof domain.PaymentProof) error {
	err := c.do(ctx, http.MethodPost, "/checkout/razorpay/verify/", proof, nil)
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrVerificationRejected
	}
	return err
}
