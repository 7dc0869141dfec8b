package domain

// CartEntry is one cart line: a denormalized snapshot of the product taken
// when the item was first added, plus the current quantity. The snapshot is
// never refreshed from the catalog, so price and name reflect add time.
type CartEntry struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart maps product id to its cart line. Present entries always have
// quantity >= 1; a line whose quantity drops to zero is removed.
type Cart = map[string]CartEntry
