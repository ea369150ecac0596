package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/cart"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/events"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/payment"
)

// mockGateway implements Gateway for testing, counting every backend call
// so tests can assert which network calls happened.
type mockGateway struct {
	mu sync.Mutex

	AddressCreates int
	OrderCreates   int
	IntentCreates  int
	Verifies       int
	ProfileFetches int

	AddressErr error
	OrderErr   error
	IntentErr  error
	VerifyErr  error
	ProfileErr error

	NextAddressID int64
	NextOrderID   int64
	LastDraft     domain.OrderDraft
	Phone         string

	lastTotal float64
}

func (m *mockGateway) CreateAddress(_ context.Context, draft domain.Address) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddressCreates++
	if m.AddressErr != nil {
		return domain.Address{}, m.AddressErr
	}
	draft.ID = m.NextAddressID
	return draft, nil
}

func (m *mockGateway) CreateOrder(_ context.Context, draft domain.OrderDraft) (domain.CreatedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderCreates++
	if m.OrderErr != nil {
		return domain.CreatedOrder{}, m.OrderErr
	}
	m.LastDraft = draft

	var total float64
	for _, item := range draft.Items {
		total += item.Price * float64(item.Quantity)
	}
	m.lastTotal = total
	return domain.CreatedOrder{OrderID: m.NextOrderID, Total: total}, nil
}

func (m *mockGateway) CreatePaymentIntent(_ context.Context, orderID int64) (domain.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentCreates++
	if m.IntentErr != nil {
		return domain.PaymentIntent{}, m.IntentErr
	}
	return domain.PaymentIntent{
		OrderID:        orderID,
		GatewayOrderID: fmt.Sprintf("rzp_order_%d_%d", orderID, m.IntentCreates),
		Amount:         int64(m.lastTotal * 100),
		Currency:       "INR",
	}, nil
}

func (m *mockGateway) VerifyPayment(_ context.Context, _ domain.PaymentProof) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verifies++
	return m.VerifyErr
}

func (m *mockGateway) Profile(_ context.Context) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileFetches++
	if m.ProfileErr != nil {
		return domain.Profile{}, m.ProfileErr
	}
	return domain.Profile{Phone: m.Phone}, nil
}

func (m *mockGateway) calls() (addresses, orders, intents, verifies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AddressCreates, m.OrderCreates, m.IntentCreates, m.Verifies
}

// mockPublisher captures published checkout events.
type mockPublisher struct {
	mu     sync.Mutex
	events []events.CheckoutEvent
}

func (m *mockPublisher) Publish(_ context.Context, event events.CheckoutEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) published() []events.CheckoutEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.CheckoutEvent, len(m.events))
	copy(out, m.events)
	return out
}

// newTestOrchestrator wires an orchestrator with a real cart store and
// hosted-checkout bridge around the mocked gateway.
func newTestOrchestrator(gw *mockGateway) (*Orchestrator, *cart.Store) {
	carts := cart.NewStore(nil)
	bridge := payment.NewHostedCheckout("rzp_test_key", "Luxe Adorn", "Premium Jewelry Purchase")
	return NewOrchestrator(carts, gw, bridge, nil), carts
}
