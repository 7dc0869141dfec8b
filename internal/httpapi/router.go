package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/catalog"
)

// NewRouter assembles the storefront API.
func NewRouter(sessions *Sessions, catalogClient *catalog.Client, requestTimeout time.Duration) http.Handler {
	catalogHandler := NewCatalogHandler(catalogClient)
	cartHandler := NewCartHandler(sessions)
	profileHandler := NewProfileHandler(sessions)
	checkoutHandler := NewCheckoutHandler(sessions)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogHandler.Products)
			r.Get("/categories", catalogHandler.Categories)
		})

		r.Group(func(r chi.Router) {
			r.Use(UserIDMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.SetQuantity)
				r.Delete("/", cartHandler.ClearCart)
			})

			r.Get("/profile", profileHandler.GetProfile)
			r.Post("/checkout", checkoutHandler.Submit)
		})
	})

	return r
}
