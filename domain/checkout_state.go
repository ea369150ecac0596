package domain

type CheckoutState string

const (
	CheckoutStateIdle                 CheckoutState = "IDLE"
	CheckoutStateAddressResolving     CheckoutState = "ADDRESS_RESOLVING"
	CheckoutStateOrderCreating        CheckoutState = "ORDER_CREATING"
	CheckoutStateOnlinePaymentPending CheckoutState = "ONLINE_PAYMENT_PENDING"
	CheckoutStateCodConfirmed         CheckoutState = "COD_CONFIRMED"
	CheckoutStateVerifying            CheckoutState = "VERIFYING"
	CheckoutStateSuccess              CheckoutState = "SUCCESS"
	CheckoutStateFailed               CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSuccess || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

// validTransitions lists the legal forward edges of the checkout flow.
// Every non-terminal state may additionally exit to FAILED or back to IDLE.
var validTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:                 {CheckoutStateAddressResolving},
	CheckoutStateAddressResolving:     {CheckoutStateOrderCreating},
	CheckoutStateOrderCreating:        {CheckoutStateOnlinePaymentPending, CheckoutStateCodConfirmed},
	CheckoutStateOnlinePaymentPending: {CheckoutStateVerifying},
	CheckoutStateCodConfirmed:         {CheckoutStateSuccess},
	CheckoutStateVerifying:            {CheckoutStateSuccess},
}

func CanTransitionTo(from, to CheckoutState) bool {
	if from.IsTerminal() {
		return false
	}
	if to == CheckoutStateFailed || to == CheckoutStateIdle {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
