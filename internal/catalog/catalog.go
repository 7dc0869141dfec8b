// Package catalog consumes the bakery products and categories endpoints and
// keeps the last successfully fetched snapshot available to the rest of the
// app. The catalog is read-only here; the cart only consults it for product
// lookups and availability.
package catalog

import (
	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

// Catalog maps category key to the products of that category, in the order
// the backend serves them.
type Catalog map[string][]domain.Product

// Category is one entry of the categories endpoint response.
type Category struct {
	Key string `json:"key"`
}

// ProductByID scans all categories for the product. Catalogs are small, so a
// linear scan is fine.
func (c Catalog) ProductByID(id string) (domain.Product, bool) {
	for _, products := range c {
		for _, p := range products {
			if p.ID == id {
				return p, true
			}
		}
	}
	return domain.Product{}, false
}

// Has reports whether the product id exists anywhere in the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c.ProductByID(id)
	return ok
}

// Changed compares the properties the storefront renders from. Used by the
// refresher to skip re-rendering when a re-fetch returned identical data.
func Changed(prev, next Catalog) bool {
	if prev == nil || next == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}

	for key, nextProducts := range next {
		prevProducts, ok := prev[key]
		if !ok {
			return true
		}
		if len(prevProducts) != len(nextProducts) {
			return true
		}
		for i := range nextProducts {
			p, n := prevProducts[i], nextProducts[i]
			if p.ID != n.ID || p.Name != n.Name || p.Price != n.Price ||
				p.AvailabilityDays != n.AvailabilityDays || p.Weight != n.Weight {
				return true
			}
		}
	}
	return false
}
