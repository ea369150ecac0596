package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/cart"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/events"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/payment"
)

const defaultCurrency = "INR"

// Gateway is the slice of the backend contract the checkout flow consumes.
type Gateway interface {
	CreateAddress(ctx context.Context, draft domain.Address) (domain.Address, error)
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.CreatedOrder, error)
	CreatePaymentIntent(ctx context.Context, orderID int64) (domain.PaymentIntent, error)
	VerifyPayment(ctx context.Context, proof domain.PaymentProof) error
	Profile(ctx context.Context) (domain.Profile, error)
}

// Publisher emits checkout lifecycle events. May be nil-backed; publishing
// never influences the user-facing flow.
type Publisher interface {
	Publish(ctx context.Context, event events.CheckoutEvent) error
}

// Orchestrator drives one checkout attempt per user from submit to a
// terminal state. Failures before the payment handoff put the user back to
// IDLE with the cart untouched; the cart is cleared only after confirmed
// success. A second submit while an attempt is in flight is rejected, never
// interleaved.
type Orchestrator struct {
	carts     *cart.Store
	gw        Gateway
	bridge    payment.Bridge
	publisher Publisher

	mu       sync.Mutex
	attempts map[int64]*attempt      // live or terminal attempt per user
	pending  map[int64]*pendingOrder // created-but-unpaid orders, reusable on retry
}

type attempt struct {
	id       string
	state    domain.CheckoutState
	orderID  int64
	total    float64
	currency string
	intent   *domain.PaymentIntent
	reason   error
}

// pendingOrder remembers an order that was created server-side but never
// paid, so a retried submit with the same cart snapshot reuses it instead
// of accumulating duplicates.
type pendingOrder struct {
	fingerprint string
	order       domain.CreatedOrder
}

// SubmitRequest carries the user's checkout choices. AddressID selects an
// existing address; otherwise Address is the inline draft to create.
type SubmitRequest struct {
	AddressID     int64
	Address       *domain.Address
	PaymentMethod domain.PaymentMethod
}

// Result reports the outcome of a submit. Widget is set only when an online
// payment is pending.
type Result struct {
	AttemptID string                `json:"attempt_id"`
	State     domain.CheckoutState  `json:"state"`
	OrderID   int64                 `json:"order_id"`
	Total     float64               `json:"total"`
	Widget    *payment.WidgetConfig `json:"widget,omitempty"`
}

func NewOrchestrator(carts *cart.Store, gw Gateway, bridge payment.Bridge, publisher Publisher) *Orchestrator {
	return &Orchestrator{
		carts:     carts,
		gw:        gw,
		bridge:    bridge,
		publisher: publisher,
		attempts:  make(map[int64]*attempt),
		pending:   make(map[int64]*pendingOrder),
	}
}

// State reports the user's current checkout state, IDLE when no attempt is
// recorded.
func (o *Orchestrator) State(userID int64) domain.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a, ok := o.attempts[userID]; ok {
		return a.state
	}
	return domain.CheckoutStateIdle
}

func (o *Orchestrator) transition(a *attempt, to domain.CheckoutState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !domain.CanTransitionTo(a.state, to) {
		return IllegalTransitionError
	}
	a.state = to
	return nil
}

// toIdle forgets the attempt so the user can submit again. The pending
// order record survives for reuse.
func (o *Orchestrator) toIdle(userID int64, a *attempt) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attempts[userID] == a {
		delete(o.attempts, userID)
	}
}

func (o *Orchestrator) fail(userID int64, a *attempt, reason error) {
	o.mu.Lock()
	a.state = domain.CheckoutStateFailed
	a.reason = reason
	o.mu.Unlock()

	o.publish(userID, a)
}

// complete clears the cart and drops the pending-order record. Runs only
// after the order is confirmed placed (COD) or payment is verified.
func (o *Orchestrator) complete(userID int64, a *attempt) {
	o.carts.Clear(userID)

	o.mu.Lock()
	a.state = domain.CheckoutStateSuccess
	delete(o.pending, userID)
	o.mu.Unlock()

	o.publish(userID, a)
}

func (o *Orchestrator) publish(userID int64, a *attempt) {
	if o.publisher == nil {
		return
	}

	o.mu.Lock()
	event := events.CheckoutEvent{
		AttemptID:  a.id,
		UserID:     userID,
		OrderID:    a.orderID,
		State:      a.state.String(),
		Total:      a.total,
		Currency:   a.currency,
		OccurredAt: time.Now().UTC(),
	}
	if a.reason != nil {
		event.Reason = a.reason.Error()
	}
	o.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.publisher.Publish(ctx, event); err != nil {
			log.Printf("failed to publish checkout event for attempt %s: %v", event.AttemptID, err)
		}
	}()
}

// fingerprint identifies a cart snapshot plus checkout choices, used to
// decide whether a pending order can be reused on a retried submit.
func fingerprint(addressID int64, method domain.PaymentMethod, items []domain.LineItem) string {
	sorted := make([]domain.LineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	h := sha256.New()
	fmt.Fprintf(h, "%d|%s", addressID, method)
	for _, item := range sorted {
		fmt.Fprintf(h, "|%d:%d:%.2f", item.ProductID, item.Quantity, item.UnitPrice)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func snapshot(items []domain.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		out[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}
	return out
}
