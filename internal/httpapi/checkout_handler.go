package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/checkout"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

type CheckoutHandler struct {
	sessions *Sessions
}

func NewCheckoutHandler(sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// Submit runs the full checkout pass. On success the Mini App receives the
// order payload and forwards it through Telegram.WebApp.sendData.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(r.Context(), getUserIDFromContext(r.Context()))

	var details domain.OrderDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	payload, err := session.Checkout.Submit(r.Context(), details)
	if err != nil {
		h.handleSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload)
}

func (h *CheckoutHandler) handleSubmitError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "order form is invalid",
			Code:    "validation_failed",
			Details: validationErr.Result.Errors,
		})
		return
	}

	var disabledErr *checkout.DisabledProductsError
	if errors.As(err, &disabledErr) {
		ids := make([]string, 0, len(disabledErr.Products))
		for _, entry := range disabledErr.Products {
			ids = append(ids, entry.ID)
		}
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "cart contains products that are no longer available",
			Code:    "disabled_products",
			Details: ids,
		})
		return
	}

	var minimumErr *checkout.BelowMinimumError
	if errors.As(err, &minimumErr) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error: "courier order total is below the minimum",
			Code:  "below_minimum",
			Details: map[string]string{
				"minimum": minimumErr.Minimum.StringFixed(2),
				"total":   minimumErr.Total.StringFixed(2),
			},
		})
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
		return
	}

	respondError(w, http.StatusBadGateway, "publish_failed", "failed to submit order")
}
