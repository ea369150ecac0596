package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// Submit drives one checkout attempt. The empty-cart check happens before
// any network call; a non-terminal attempt already in flight for this user
// is rejected, not queued.
func (o *Orchestrator) Submit(ctx context.Context, userID int64, req SubmitRequest) (*Result, error) {
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	items := o.carts.Items(userID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	o.mu.Lock()
	if a, ok := o.attempts[userID]; ok && !a.state.IsTerminal() {
		o.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	a := &attempt{
		id:       uuid.New().String(),
		state:    domain.CheckoutStateAddressResolving,
		currency: defaultCurrency,
	}
	o.attempts[userID] = a
	o.mu.Unlock()

	result, err := o.run(ctx, userID, a, req, items)
	if err != nil {
		// Failure before the payment handoff: back to IDLE, cart untouched.
		o.toIdle(userID, a)
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, userID int64, a *attempt, req SubmitRequest, items []domain.LineItem) (*Result, error) {
	addressID, err := o.resolveAddress(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := o.transition(a, domain.CheckoutStateOrderCreating); err != nil {
		return nil, err
	}

	fp := fingerprint(addressID, req.PaymentMethod, items)
	order, err := o.createOrder(ctx, userID, a, fp, domain.OrderDraft{
		AddressID:     addressID,
		PaymentMethod: req.PaymentMethod,
		Items:         snapshot(items),
	})
	if err != nil {
		return nil, err
	}

	if req.PaymentMethod == domain.PaymentMethodCOD {
		if err := o.transition(a, domain.CheckoutStateCodConfirmed); err != nil {
			return nil, err
		}
		o.complete(userID, a)
		return &Result{AttemptID: a.id, State: domain.CheckoutStateSuccess, OrderID: order.OrderID, Total: order.Total}, nil
	}

	return o.openPayment(ctx, userID, a, req, order)
}

// resolveAddress short-circuits on a selected address id; only a draft
// triggers a create call.
func (o *Orchestrator) resolveAddress(ctx context.Context, req SubmitRequest) (int64, error) {
	if req.AddressID != 0 {
		return req.AddressID, nil
	}
	if req.Address == nil {
		return 0, ErrAddressRequired
	}

	created, err := o.gw.CreateAddress(ctx, *req.Address)
	if err != nil {
		return 0, fmt.Errorf("resolve address: %w", err)
	}
	return created.ID, nil
}

// createOrder reuses the last created-but-unpaid order when the cart
// snapshot has not changed since the previous attempt, so a dismissed or
// failed payment does not pile up duplicate orders server-side.
func (o *Orchestrator) createOrder(ctx context.Context, userID int64, a *attempt, fp string, draft domain.OrderDraft) (domain.CreatedOrder, error) {
	o.mu.Lock()
	prev := o.pending[userID]
	o.mu.Unlock()

	if prev != nil && prev.fingerprint == fp {
		log.Printf("checkout attempt %s: reusing pending order %d", a.id, prev.order.OrderID)
		o.recordOrder(userID, a, fp, prev.order)
		return prev.order, nil
	}

	order, err := o.gw.CreateOrder(ctx, draft)
	if err != nil {
		return domain.CreatedOrder{}, fmt.Errorf("create order: %w", err)
	}
	o.recordOrder(userID, a, fp, order)
	return order, nil
}

func (o *Orchestrator) recordOrder(userID int64, a *attempt, fp string, order domain.CreatedOrder) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a.orderID = order.OrderID
	a.total = order.Total
	o.pending[userID] = &pendingOrder{fingerprint: fp, order: order}
}
