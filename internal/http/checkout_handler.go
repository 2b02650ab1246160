package http

import (
	"net/http"

	"github.com/GobLyne/ECommerce/internal/service"
)

type CheckoutHandler struct {
	orders *service.OrderService
}

func NewCheckoutHandler(orders *service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{orders: orders}
}

// Checkout is a payment stub: it snapshots the cart into the mocked order
// history and clears the cart.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Checkout(r.Context(), getUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) Orders(w http.ResponseWriter, r *http.Request) {
	history := h.orders.History(getUserID(r.Context()))
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": history})
}
