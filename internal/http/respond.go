package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SankalpJangid/jewellary-ecommerce/internal/checkout"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/gateway"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleFlowError maps checkout and gateway errors onto HTTP responses.
func handleFlowError(w http.ResponseWriter, err error) {
	var ve *gateway.ValidationError
	var ge *gateway.GatewayError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "checkout_in_flight", err.Error())
	case errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, checkout.ErrNoPendingPayment):
		respondError(w, http.StatusConflict, "no_pending_payment", err.Error())
	case errors.Is(err, checkout.ErrPaymentVerification),
		errors.Is(err, gateway.ErrVerificationRejected):
		respondError(w, http.StatusBadRequest, "payment_verification_failed", "payment was not confirmed")
	case errors.Is(err, gateway.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "auth_required", "please sign in to continue")
	case errors.Is(err, gateway.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, "validation_error", ve.Detail)
	case errors.As(err, &ge):
		respondError(w, http.StatusBadGateway, "backend_unavailable", "something went wrong, please try again")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
