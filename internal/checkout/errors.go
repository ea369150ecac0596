package checkout

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInFlight     = errors.New("a checkout attempt is already in flight")
	ErrAddressRequired      = errors.New("an address id or a draft address is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrNoPendingPayment     = errors.New("no online payment is awaiting confirmation")
	ErrPaymentVerification  = errors.New("payment was not confirmed")
	IllegalTransitionError  = errors.New("illegal transition of checkout state")
)
