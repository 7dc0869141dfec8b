package httpapi

import (
	"net/http"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/catalog"
)

type CatalogHandler struct {
	client *catalog.Client
}

func NewCatalogHandler(client *catalog.Client) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// Products serves the current catalog snapshot, fetching only when nothing
// has ever loaded. A stale snapshot beats an error page.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	current := h.client.Current()
	if current == nil {
		fetched, err := h.client.FetchProducts(r.Context())
		if err != nil {
			respondError(w, http.StatusBadGateway, "catalog_unavailable", "failed to load products")
			return
		}
		current = fetched
	}

	respondJSON(w, http.StatusOK, current)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.client.Categories()
	if categories == nil {
		fetched, err := h.client.FetchCategories(r.Context())
		if err != nil {
			respondError(w, http.StatusBadGateway, "catalog_unavailable", "failed to load categories")
			return
		}
		categories = fetched
	}

	respondJSON(w, http.StatusOK, categories)
}
