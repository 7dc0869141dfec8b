package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/bridge"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/cart"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/checkout"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/profile"
)

// Session bundles the per-user managers. Storage keys are namespaced by user
// so one browser's cart never bleeds into another's.
type Session struct {
	Cart     *cart.Manager
	Profile  *profile.Manager
	Checkout *checkout.Service
}

// Sessions lazily creates and caches one Session per Telegram user.
type Sessions struct {
	kv            kvstore.Store
	catalog       cart.CatalogSource
	publisher     bridge.Publisher
	validator     *checkout.Validator
	sweepInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(kv kvstore.Store, source cart.CatalogSource, publisher bridge.Publisher, validator *checkout.Validator, sweepInterval time.Duration) *Sessions {
	return &Sessions{
		kv:            kv,
		catalog:       source,
		publisher:     publisher,
		validator:     validator,
		sweepInterval: sweepInterval,
		sessions:      make(map[string]*Session),
	}
}

// Get returns the session for userID, creating and rehydrating it on first
// use. The cart's expiry sweeper runs for the lifetime of the process.
func (s *Sessions) Get(ctx context.Context, userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		return session
	}

	cartManager := cart.NewManager(s.kv, fmt.Sprintf("cart:%s", userID), s.catalog)
	cartManager.Load(ctx)
	cartManager.StartSweeper(context.Background(), s.sweepInterval)

	profileManager := profile.NewManager(s.kv, fmt.Sprintf("customer_data:%s", userID))

	session := &Session{
		Cart:     cartManager,
		Profile:  profileManager,
		Checkout: checkout.NewService(cartManager, profileManager, s.validator, s.publisher),
	}
	s.sessions[userID] = session
	return session
}

// Close stops every session's background work.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		session.Cart.Close()
	}
}
