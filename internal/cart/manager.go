// Package cart owns the session cart: an in-memory map synchronized
// write-through to the versioned record store and reconciled against the live
// catalog for availability.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/catalog"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/record"
)

const (
	// SchemaVersion is the cart payload schema; a stored cart from any other
	// version is discarded on load.
	SchemaVersion = "1.0.0"

	// TTL is how long an untouched cart survives.
	TTL = 2 * 24 * time.Hour

	// SweepInterval is how often the background expiry check runs.
	SweepInterval = 10 * time.Minute
)

var ErrProductNotFound = errors.New("product not found in catalog")

// CatalogSource provides the current catalog snapshot. The manager never
// fetches; it only reads whatever the source last saw.
type CatalogSource interface {
	Current() catalog.Catalog
}

// Manager holds one session's cart.
type Manager struct {
	mu      sync.Mutex
	records *record.Store[domain.Cart]
	catalog CatalogSource
	items   domain.Cart

	onExpire func()
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a manager persisting under key in kv.
func NewManager(kv kvstore.Store, key string, source CatalogSource) *Manager {
	return &Manager{
		records: record.New(kv, key, SchemaVersion, TTL, func() domain.Cart {
			return domain.Cart{}
		}),
		catalog: source,
		items:   domain.Cart{},
		stop:    make(chan struct{}),
	}
}

// WithClock overrides the record store's time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.records.WithClock(now)
	return m
}

// OnExpire registers a callback fired when the background sweep clears an
// expired cart.
func (m *Manager) OnExpire(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// Load rehydrates the cart from storage, applying the record layer's
// expiry/version/migration policy.
func (m *Manager) Load(ctx context.Context) domain.Cart {
	loaded := m.records.Load(ctx)
	if loaded == nil {
		loaded = domain.Cart{}
	}

	m.mu.Lock()
	m.items = loaded
	m.mu.Unlock()

	return copyCart(loaded)
}

// SetQuantity adjusts the quantity of a product by delta, creating the entry
// with a snapshot of the current catalog product on first add and removing it
// when the quantity drops to zero or below. Increments require the product to
// still exist in the catalog; decrements always work so disabled lines can be
// removed. The full cart is persisted after every mutation.
func (m *Manager) SetQuantity(ctx context.Context, productID string, delta int) (domain.CartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.items[productID]
	if !exists {
		product, ok := m.catalog.Current().ProductByID(productID)
		if !ok {
			return domain.CartEntry{}, ErrProductNotFound
		}
		entry = domain.CartEntry{Product: product, Quantity: 0}
	}

	if exists && delta > 0 && !m.catalog.Current().Has(productID) {
		return domain.CartEntry{}, ErrProductNotFound
	}

	entry.Quantity += delta
	if entry.Quantity <= 0 {
		delete(m.items, productID)
		entry.Quantity = 0
	} else {
		m.items[productID] = entry
	}

	m.records.Save(ctx, m.items)
	return entry, nil
}

// IsAvailable reports whether the product id still exists in the live
// catalog. Cart lines for discontinued products stay visible but disabled.
func (m *Manager) IsAvailable(productID string) bool {
	return m.catalog.Current().Has(productID)
}

// Disabled returns the cart lines whose product left the catalog. Checkout is
// blocked while any exist.
func (m *Manager) Disabled() []domain.CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.catalog.Current()
	var disabled []domain.CartEntry
	for id, entry := range m.items {
		if !current.Has(id) {
			disabled = append(disabled, entry)
		}
	}
	return disabled
}

// SpecialTerms returns the cart lines whose catalog product carries special
// availability conditions, for the checkout notice.
func (m *Manager) SpecialTerms() []domain.CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.catalog.Current()
	var special []domain.CartEntry
	for id, entry := range m.items {
		if product, ok := current.ProductByID(id); ok && product.HasSpecialTerms() {
			special = append(special, entry)
		}
	}
	return special
}

// Clear empties the cart and deletes the persisted record entirely, so
// re-adding an item starts a fresh TTL window.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = domain.Cart{}
	m.records.Clear(ctx)
}

// TotalItems is the sum of quantities across all entries.
func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, entry := range m.items {
		total += entry.Quantity
	}
	return total
}

// TotalPrice is the sum of price x quantity across all entries, derived on
// demand from the add-time snapshots.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, entry := range m.items {
		price := decimal.NewFromFloat(entry.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return total
}

// Items returns a copy of the cart map.
func (m *Manager) Items() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCart(m.items)
}

// Age reports how long ago the persisted cart was last written.
func (m *Manager) Age(ctx context.Context) (time.Duration, bool) {
	return m.records.Age(ctx)
}

// StartSweeper runs the periodic expiry check in the background. When the
// stored record expires between reads, the in-memory cart is reset too.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = SweepInterval
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the sweeper and waits for it to exit.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
}

func (m *Manager) sweep(ctx context.Context) {
	if !m.records.Sweep(ctx) {
		return
	}

	m.mu.Lock()
	m.items = domain.Cart{}
	onExpire := m.onExpire
	m.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

func copyCart(items domain.Cart) domain.Cart {
	out := make(domain.Cart, len(items))
	for id, entry := range items {
		out[id] = entry
	}
	return out
}
