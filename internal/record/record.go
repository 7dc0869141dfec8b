// Package record wraps payloads stored in a key -> string store with schema
// version, write timestamp and absolute expiry, and enforces the
// expire/migrate/reset policy on every read. Both the cart and the customer
// profile use this layer with different keys, versions and TTLs.
package record

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"github.com/goccy/go-json"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
)

// Record is the persisted envelope. Timestamp and ExpiresAt are epoch
// milliseconds; ExpiresAt is fixed at write time and never recomputed.
type Record[T any] struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
	ExpiresAt int64  `json:"expiresAt"`
	Data      T      `json:"data"`
}

// Store binds one storage key to a payload schema version and TTL. All
// operations degrade to the empty default instead of returning errors so the
// caller always has a usable, possibly empty, state.
type Store[T any] struct {
	kv      kvstore.Store
	key     string
	version string
	ttl     time.Duration
	empty   func() T
	now     func() time.Time
}

// New creates a store for key. empty produces the default payload returned
// when the record is absent, expired, corrupt or from another schema version.
func New[T any](kv kvstore.Store, key, version string, ttl time.Duration, empty func() T) *Store[T] {
	return &Store[T]{
		kv:      kv,
		key:     key,
		version: version,
		ttl:     ttl,
		empty:   empty,
		now:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Store[T]) WithClock(now func() time.Time) *Store[T] {
	s.now = now
	return s
}

// Wrap stamps the payload with the store's version and a fresh TTL window.
func (s *Store[T]) Wrap(data T) Record[T] {
	nowMs := s.now().UnixMilli()
	return Record[T]{
		Version:   s.version,
		Timestamp: nowMs,
		ExpiresAt: nowMs + s.ttl.Milliseconds(),
		Data:      data,
	}
}

// Save wraps and persists the payload. Reports success; storage failures are
// logged and swallowed.
func (s *Store[T]) Save(ctx context.Context, data T) bool {
	raw, err := json.Marshal(s.Wrap(data))
	if err != nil {
		log.Printf("failed to marshal record %q: %v", s.key, err)
		return false
	}

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		log.Printf("failed to save record %q: %v", s.key, err)
		return false
	}
	return true
}

// envelope mirrors Record with a deferred payload, so version and timestamp
// can be inspected before committing to a schema.
type envelope struct {
	Version   string          `json:"version"`
	Timestamp int64           `json:"timestamp"`
	ExpiresAt int64           `json:"expiresAt"`
	Data      json.RawMessage `json:"data"`
}

// Load reads the payload for the store's key.
//
// Resolution order: absent -> empty; unparseable or null -> delete, empty;
// legacy un-wrapped payload -> wrap once, persist, return as-is; expired ->
// delete, empty; version mismatch -> delete, empty (full reset, no field
// migration); otherwise the stored data.
func (s *Store[T]) Load(ctx context.Context) T {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("failed to read record %q: %v", s.key, err)
		}
		return s.empty()
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("corrupt record %q, resetting: %v", s.key, err)
		s.delete(ctx)
		return s.empty()
	}

	if env.Version == "" || env.Timestamp == 0 {
		return s.migrateLegacy(ctx, raw)
	}

	if s.now().UnixMilli() > env.ExpiresAt {
		log.Printf("record %q expired, resetting", s.key)
		s.delete(ctx)
		return s.empty()
	}

	if env.Version != s.version {
		log.Printf("record %q version %s does not match %s, resetting", s.key, env.Version, s.version)
		s.delete(ctx)
		return s.empty()
	}

	// A null payload unmarshals into a nil map without an error; treat it as
	// corrupt so map-typed callers never receive nil.
	if isNullPayload(env.Data) {
		log.Printf("record %q has null payload, resetting", s.key)
		s.delete(ctx)
		return s.empty()
	}

	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Printf("corrupt record payload %q, resetting: %v", s.key, err)
		s.delete(ctx)
		return s.empty()
	}
	return data
}

// migrateLegacy treats the whole stored value as a raw, un-wrapped payload,
// persists it wrapped and returns it unchanged. Runs at most once per key:
// the rewritten record carries version and timestamp.
func (s *Store[T]) migrateLegacy(ctx context.Context, raw string) T {
	if isNullPayload([]byte(raw)) {
		log.Printf("legacy record %q is null, resetting", s.key)
		s.delete(ctx)
		return s.empty()
	}

	var data T
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Printf("legacy record %q is unreadable, resetting: %v", s.key, err)
		s.delete(ctx)
		return s.empty()
	}

	s.Save(ctx, data)
	return data
}

// Clear deletes the persisted record entirely, so the next save starts a
// fresh TTL window instead of inheriting a stale one.
func (s *Store[T]) Clear(ctx context.Context) {
	s.delete(ctx)
}

// Sweep deletes the record iff it has expired and reports whether it did.
// Meant for periodic background checks independent of reads.
func (s *Store[T]) Sweep(ctx context.Context) bool {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return false
	}

	if env.ExpiresAt != 0 && s.now().UnixMilli() > env.ExpiresAt {
		s.delete(ctx)
		return true
	}
	return false
}

// Age returns the time since the record was last written, when one exists.
func (s *Store[T]) Age(ctx context.Context) (time.Duration, bool) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return 0, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Timestamp == 0 {
		return 0, false
	}

	return time.Duration(s.now().UnixMilli()-env.Timestamp) * time.Millisecond, true
}

func isNullPayload(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (s *Store[T]) delete(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		log.Printf("failed to delete record %q: %v", s.key, err)
	}
}
