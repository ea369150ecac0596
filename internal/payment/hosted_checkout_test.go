package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

func testIntent() domain.PaymentIntent {
	return domain.PaymentIntent{
		OrderID:        200,
		GatewayOrderID: "rzp_order_1",
		Amount:         120000,
		Currency:       "INR",
	}
}

func newBridge() *HostedCheckout {
	return NewHostedCheckout("rzp_test_key", "Luxe Adorn", "Premium Jewelry Purchase")
}

func TestOpen_BuildsWidgetConfig(t *testing.T) {
	bridge := newBridge()

	config, err := bridge.Open(testIntent(), "9876543210",
		func(context.Context, domain.PaymentProof) error { return nil },
		func() {},
	)

	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", config.Key)
	assert.Equal(t, int64(120000), config.Amount)
	assert.Equal(t, "INR", config.Currency)
	assert.Equal(t, "Luxe Adorn", config.Name)
	assert.Equal(t, "rzp_order_1", config.GatewayOrderID)
	assert.Equal(t, "9876543210", config.Prefill.Contact)
}

func TestOpen_RejectsEmptyIntent(t *testing.T) {
	bridge := newBridge()
	noop := func(context.Context, domain.PaymentProof) error { return nil }

	_, err := bridge.Open(domain.PaymentIntent{}, "", noop, func() {})
	require.ErrorIs(t, err, ErrEmptyIntent)

	zeroAmount := testIntent()
	zeroAmount.Amount = 0
	_, err = bridge.Open(zeroAmount, "", noop, func() {})
	require.ErrorIs(t, err, ErrEmptyIntent)
}

func TestSettle_FiresContinuationExactlyOnce(t *testing.T) {
	bridge := newBridge()

	settled := 0
	dismissed := 0
	_, err := bridge.Open(testIntent(), "",
		func(_ context.Context, proof domain.PaymentProof) error {
			settled++
			assert.Equal(t, "pay_abc", proof.PaymentID)
			return nil
		},
		func() { dismissed++ },
	)
	require.NoError(t, err)

	proof := domain.PaymentProof{PaymentID: "pay_abc", GatewayOrderID: "rzp_order_1", Signature: "sig"}
	require.NoError(t, bridge.Settle(context.Background(), "rzp_order_1", proof))

	assert.Equal(t, 1, settled)
	assert.Zero(t, dismissed)

	// The continuation is consumed: repeated delivery does not re-fire.
	err = bridge.Settle(context.Background(), "rzp_order_1", proof)
	assert.ErrorIs(t, err, ErrUnknownIntent)
	assert.Equal(t, 1, settled)

	// Neither does a late dismiss.
	assert.ErrorIs(t, bridge.Dismiss("rzp_order_1"), ErrUnknownIntent)
	assert.Zero(t, dismissed)
}

func TestSettle_PropagatesContinuationError(t *testing.T) {
	bridge := newBridge()
	wantErr := errors.New("verification failed")

	_, err := bridge.Open(testIntent(), "",
		func(context.Context, domain.PaymentProof) error { return wantErr },
		func() {},
	)
	require.NoError(t, err)

	err = bridge.Settle(context.Background(), "rzp_order_1", domain.PaymentProof{})
	assert.ErrorIs(t, err, wantErr)
}

func TestDismiss_FiresDismissContinuation(t *testing.T) {
	bridge := newBridge()

	settled := 0
	dismissed := 0
	_, err := bridge.Open(testIntent(), "",
		func(context.Context, domain.PaymentProof) error { settled++; return nil },
		func() { dismissed++ },
	)
	require.NoError(t, err)

	require.NoError(t, bridge.Dismiss("rzp_order_1"))
	assert.Equal(t, 1, dismissed)
	assert.Zero(t, settled)

	assert.ErrorIs(t, bridge.Dismiss("rzp_order_1"), ErrUnknownIntent)
	assert.Equal(t, 1, dismissed)
}

func TestSettle_UnknownGatewayOrder(t *testing.T) {
	bridge := newBridge()

	err := bridge.Settle(context.Background(), "rzp_order_missing", domain.PaymentProof{})
	assert.ErrorIs(t, err, ErrUnknownIntent)
}
