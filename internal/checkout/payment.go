package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/gateway"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/payment"
)

// openPayment requests a payment intent for the created order and hands it
// to the bridge. From here the attempt suspends until the widget reports
// settled or dismissed.
func (o *Orchestrator) openPayment(ctx context.Context, userID int64, a *attempt, req SubmitRequest, order domain.CreatedOrder) (*Result, error) {
	intent, err := o.gw.CreatePaymentIntent(ctx, order.OrderID)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	contact := o.prefillContact(ctx, req)
	widget, err := o.bridge.Open(intent, contact,
		func(ctx context.Context, proof domain.PaymentProof) error {
			return o.settle(ctx, userID, a, proof)
		},
		func() {
			o.toIdle(userID, a)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("open payment widget: %w", err)
	}

	o.mu.Lock()
	a.intent = &intent
	if intent.Currency != "" {
		a.currency = intent.Currency
	}
	o.mu.Unlock()

	if err := o.transition(a, domain.CheckoutStateOnlinePaymentPending); err != nil {
		return nil, err
	}

	return &Result{
		AttemptID: a.id,
		State:     domain.CheckoutStateOnlinePaymentPending,
		OrderID:   order.OrderID,
		Total:     order.Total,
		Widget:    &widget,
	}, nil
}

// prefillContact picks the widget's contact number: profile phone first,
// then the draft address phone. Best effort; a profile fetch failure just
// leaves the prefill empty.
func (o *Orchestrator) prefillContact(ctx context.Context, req SubmitRequest) string {
	if profile, err := o.gw.Profile(ctx); err == nil && profile.Phone != "" {
		return profile.Phone
	}
	if req.Address != nil {
		return req.Address.Phone
	}
	return ""
}

// HandleSettled resumes the attempt with the widget's proof of payment.
// Idempotent: a repeated delivery after the attempt concluded reports the
// same outcome without re-verifying.
func (o *Orchestrator) HandleSettled(ctx context.Context, userID int64, proof domain.PaymentProof) error {
	o.mu.Lock()
	a := o.attempts[userID]
	var state domain.CheckoutState
	var intent *domain.PaymentIntent
	var reason error
	if a != nil {
		state = a.state
		intent = a.intent
		reason = a.reason
	}
	o.mu.Unlock()

	if a == nil {
		return ErrNoPendingPayment
	}

	switch state {
	case domain.CheckoutStateSuccess:
		return nil
	case domain.CheckoutStateFailed:
		if reason != nil {
			return reason
		}
		return ErrPaymentVerification
	}

	if intent == nil {
		return ErrNoPendingPayment
	}

	err := o.bridge.Settle(ctx, intent.GatewayOrderID, proof)
	if errors.Is(err, payment.ErrUnknownIntent) {
		return ErrNoPendingPayment
	}
	return err
}

// settle is the continuation the bridge fires when the user completes
// payment. Verification is exclusively server-side; on rejection the cart
// is deliberately preserved and the order stays pending so the user can
// retry.
func (o *Orchestrator) settle(ctx context.Context, userID int64, a *attempt, proof domain.PaymentProof) error {
	if err := o.transition(a, domain.CheckoutStateVerifying); err != nil {
		return err
	}

	if err := o.gw.VerifyPayment(ctx, proof); err != nil {
		if errors.Is(err, gateway.ErrVerificationRejected) {
			o.fail(userID, a, ErrPaymentVerification)
			return ErrPaymentVerification
		}
		o.fail(userID, a, err)
		return err
	}

	o.complete(userID, a)
	return nil
}

// HandleDismissed returns the attempt to a retryable IDLE state without
// touching the cart or the created order. Idempotent against repeated
// notifications.
func (o *Orchestrator) HandleDismissed(userID int64) error {
	o.mu.Lock()
	a := o.attempts[userID]
	var state domain.CheckoutState
	var intent *domain.PaymentIntent
	if a != nil {
		state = a.state
		intent = a.intent
	}
	o.mu.Unlock()

	if a == nil || state.IsTerminal() || intent == nil {
		return nil
	}

	err := o.bridge.Dismiss(intent.GatewayOrderID)
	if errors.Is(err, payment.ErrUnknownIntent) {
		return nil
	}
	if err != nil {
		log.Printf("dismiss payment for user %d: %v", userID, err)
	}
	return err
}
