package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

func sampleCatalog() Catalog {
	return Catalog{
		"category_bakery": {
			{ID: "p1", Name: "Багет", Price: 3.50, Category: "category_bakery"},
			{ID: "p2", Name: "Крендель", Price: 4.20, Category: "category_bakery"},
		},
		"category_desserts": {
			{ID: "p3", Name: "Эклер", Price: 5.00, Category: "category_desserts"},
		},
	}
}

func TestProductByID(t *testing.T) {
	c := sampleCatalog()

	product, ok := c.ProductByID("p3")
	require.True(t, ok)
	assert.Equal(t, "Эклер", product.Name)

	_, ok = c.ProductByID("p99")
	assert.False(t, ok)

	assert.True(t, c.Has("p1"))
	assert.False(t, c.Has("p99"))
}

func TestChanged(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(Catalog)
		changed bool
	}{
		{"identical", func(Catalog) {}, false},
		{"price changed", func(c Catalog) {
			products := c["category_bakery"]
			products[0].Price = 3.80
		}, true},
		{"name changed", func(c Catalog) {
			products := c["category_desserts"]
			products[0].Name = "Эклер новый"
		}, true},
		{"availability changed", func(c Catalog) {
			products := c["category_bakery"]
			products[1].AvailabilityDays = "пн-пт"
		}, true},
		{"product removed", func(c Catalog) {
			c["category_bakery"] = c["category_bakery"][:1]
		}, true},
		{"category removed", func(c Catalog) {
			delete(c, "category_desserts")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := sampleCatalog()
			next := sampleCatalog()
			tt.mutate(next)

			assert.Equal(t, tt.changed, Changed(prev, next))
		})
	}
}

func TestChanged_NilCatalogs(t *testing.T) {
	assert.True(t, Changed(nil, sampleCatalog()))
	assert.True(t, Changed(sampleCatalog(), nil))
}

func TestChanged_DescriptionOnlyIgnored(t *testing.T) {
	prev := sampleCatalog()
	next := sampleCatalog()
	products := next["category_bakery"]
	products[0].ShortDescription = "другое описание"

	// Only rendered properties participate in change detection
	assert.False(t, Changed(prev, next))
}

func TestHasSpecialTerms(t *testing.T) {
	assert.False(t, domain.Product{AvailabilityDays: ""}.HasSpecialTerms())
	assert.False(t, domain.Product{AvailabilityDays: "N/A"}.HasSpecialTerms())
	assert.True(t, domain.Product{AvailabilityDays: "только по выходным"}.HasSpecialTerms())
}
