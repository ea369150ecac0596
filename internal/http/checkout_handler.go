package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/checkout"
)

// CheckoutFlow is the orchestrator surface the HTTP layer drives.
type CheckoutFlow interface {
	Submit(ctx context.Context, userID int64, req checkout.SubmitRequest) (*checkout.Result, error)
	HandleSettled(ctx context.Context, userID int64, proof domain.PaymentProof) error
	HandleDismissed(userID int64) error
	State(userID int64) domain.CheckoutState
}

type CheckoutHandler struct {
	flow    CheckoutFlow
	timeout time.Duration
}

func NewCheckoutHandler(flow CheckoutFlow, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{flow: flow, timeout: timeout}
}

type SubmitCheckoutRequestDTO struct {
	AddressID     int64           `json:"address_id,omitempty"`
	Address       *domain.Address `json:"address,omitempty"`
	PaymentMethod string          `json:"payment_method"`
}

type CheckoutStateResponseDTO struct {
	State string `json:"state"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req SubmitCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.flow.Submit(ctx, userID, checkout.SubmitRequest{
		AddressID:     req.AddressID,
		Address:       req.Address,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		checkoutAttempts.WithLabelValues("rejected").Inc()
		handleFlowError(w, err)
		return
	}

	checkoutAttempts.WithLabelValues(string(result.State)).Inc()
	respondJSON(w, http.StatusCreated, result)
}

// POST /api/v1/checkout/payment/callback
func (h *CheckoutHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var proof domain.PaymentProof
	if err := json.NewDecoder(r.Body).Decode(&proof); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if proof.PaymentID == "" || proof.GatewayOrderID == "" || proof.Signature == "" {
		respondError(w, http.StatusBadRequest, "invalid_proof", "payment proof fields are required")
		return
	}

	if err := h.flow.HandleSettled(ctx, userID, proof); err != nil {
		checkoutAttempts.WithLabelValues("verification_failed").Inc()
		handleFlowError(w, err)
		return
	}

	checkoutAttempts.WithLabelValues("verified").Inc()
	respondJSON(w, http.StatusOK, CheckoutStateResponseDTO{
		State: h.flow.State(userID).String(),
	})
}

// POST /api/v1/checkout/payment/dismiss
func (h *CheckoutHandler) PaymentDismiss(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.flow.HandleDismissed(userID); err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutStateResponseDTO{
		State: h.flow.State(userID).String(),
	})
}

// GET /api/v1/checkout/state
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutStateResponseDTO{
		State: h.flow.State(userID).String(),
	})
}
