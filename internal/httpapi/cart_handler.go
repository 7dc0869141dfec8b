package httpapi

import (
	"errors"
	"net/http"
	"sort"

	"github.com/goccy/go-json"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/cart"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

type CartHandler struct {
	sessions *Sessions
}

func NewCartHandler(sessions *Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type cartLineDTO struct {
	domain.CartEntry
	Available bool `json:"available"`
}

type cartViewDTO struct {
	Items        []cartLineDTO `json:"items"`
	TotalItems   int           `json:"total_items"`
	TotalPrice   float64       `json:"total_price"`
	AgeDays      *float64      `json:"age_days,omitempty"`
	SpecialTerms []string      `json:"special_terms,omitempty"`
}

type setQuantityDTO struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(r.Context(), getUserIDFromContext(r.Context()))
	session.Cart.Load(r.Context())

	respondJSON(w, http.StatusOK, h.view(r, session))
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(r.Context(), getUserIDFromContext(r.Context()))

	var req setQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	if _, err := session.Cart.SetQuantity(r.Context(), req.ProductID, req.Delta); err != nil {
		if errors.Is(err, cart.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found in catalog")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, http.StatusOK, h.view(r, session))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(r.Context(), getUserIDFromContext(r.Context()))
	session.Cart.Clear(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) view(r *http.Request, session *Session) cartViewDTO {
	items := session.Cart.Items()

	lines := make([]cartLineDTO, 0, len(items))
	for id, entry := range items {
		lines = append(lines, cartLineDTO{
			CartEntry: entry,
			Available: session.Cart.IsAvailable(id),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })

	view := cartViewDTO{
		Items:      lines,
		TotalItems: session.Cart.TotalItems(),
		TotalPrice: session.Cart.TotalPrice().Round(2).InexactFloat64(),
	}

	if age, ok := session.Cart.Age(r.Context()); ok {
		days := age.Hours() / 24
		view.AgeDays = &days
	}

	for _, entry := range session.Cart.SpecialTerms() {
		view.SpecialTerms = append(view.SpecialTerms, entry.Name)
	}
	sort.Strings(view.SpecialTerms)

	return view
}
