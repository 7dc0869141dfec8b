package record

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(delta time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(delta)
	c.mu.Unlock()
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage disabled")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("storage disabled")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("storage disabled")
}

type cartPayload = map[string]map[string]interface{}

func emptyCart() cartPayload { return cartPayload{} }

func newCartStore(kv kvstore.Store, clock *fakeClock) *Store[cartPayload] {
	return New(kv, "cart", "1.0.0", 2*24*time.Hour, emptyCart).WithClock(clock.Now)
}

func TestLoad_AbsentKey(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	store := newCartStore(kv, newFakeClock(time.Now()))

	result := store.Load(context.Background())
	assert.Empty(t, result)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	payload := cartPayload{"p1": {"quantity": float64(2), "price": float64(10)}}
	require.True(t, store.Save(ctx, payload))

	result := store.Load(ctx)
	assert.Equal(t, payload, result)
}

func TestLoad_Expired_DeletesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	payload := cartPayload{"p1": {"quantity": float64(2), "price": float64(10)}}
	require.True(t, store.Save(ctx, payload))

	// Reading one day in is still fresh
	clock.Advance(24 * time.Hour)
	assert.Equal(t, payload, store.Load(ctx))

	// Reading past the two-day TTL returns empty and removes the key
	clock.Advance(2 * 24 * time.Hour)
	assert.Empty(t, store.Load(ctx))

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoad_VersionMismatch_DeletesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())

	old := New(kv, "cart", "0.9.0", 2*24*time.Hour, emptyCart).WithClock(clock.Now)
	require.True(t, old.Save(ctx, cartPayload{"p1": {"quantity": float64(1)}}))

	// Unexpired record from another schema version is reset regardless
	store := newCartStore(kv, clock)
	assert.Empty(t, store.Load(ctx))

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoad_LegacyPayload_MigratesOnce(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	legacy := `{"p1":{"quantity":2,"price":10}}`
	require.NoError(t, kv.Set(ctx, "cart", legacy))

	expected := cartPayload{"p1": {"quantity": float64(2), "price": float64(10)}}
	assert.Equal(t, expected, store.Load(ctx))

	// The rewritten record is wrapped now
	raw, err := kv.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Contains(t, raw, `"version":"1.0.0"`)
	assert.Contains(t, raw, `"timestamp"`)
	firstMigration := raw

	// A second load returns the same payload and does not rewrite again
	assert.Equal(t, expected, store.Load(ctx))
	raw, err = kv.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, firstMigration, raw)
}

func TestLoad_NullValue_DeletesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := newCartStore(kv, newFakeClock(time.Now()))

	// A stored literal null parses without an error but must never surface
	// as a nil payload, and must not be re-persisted by the legacy path
	require.NoError(t, kv.Set(ctx, "cart", "null"))

	result := store.Load(ctx)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoad_NullData_DeletesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	wrapped := store.Wrap(nil)
	raw, err := json.Marshal(wrapped)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"data":null`)
	require.NoError(t, kv.Set(ctx, "cart", string(raw)))

	result := store.Load(ctx)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	_, err = kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoad_CorruptJSON_DeletesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := newCartStore(kv, newFakeClock(time.Now()))

	require.NoError(t, kv.Set(ctx, "cart", "{not json"))
	assert.Empty(t, store.Load(ctx))

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestSave_StorageFailure_ReturnsFalse(t *testing.T) {
	store := New(failingStore{}, "cart", "1.0.0", time.Hour, emptyCart)

	assert.False(t, store.Save(context.Background(), cartPayload{}))
}

func TestLoad_StorageFailure_ReturnsEmpty(t *testing.T) {
	store := New(failingStore{}, "cart", "1.0.0", time.Hour, emptyCart)

	assert.Empty(t, store.Load(context.Background()))
}

func TestClear_RemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := newCartStore(kv, newFakeClock(time.Now()))

	require.True(t, store.Save(ctx, cartPayload{"p1": {"quantity": float64(1)}}))
	store.Clear(ctx)

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	require.True(t, store.Save(ctx, cartPayload{"p1": {"quantity": float64(1)}}))

	// Fresh record stays put
	assert.False(t, store.Sweep(ctx))
	_, err := kv.Get(ctx, "cart")
	require.NoError(t, err)

	// Expired record is removed
	clock.Advance(3 * 24 * time.Hour)
	assert.True(t, store.Sweep(ctx))
	_, err = kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	// Sweeping an absent key is a no-op
	assert.False(t, store.Sweep(ctx))
}

func TestAge(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(time.Now())
	store := newCartStore(kv, clock)

	_, ok := store.Age(ctx)
	assert.False(t, ok)

	require.True(t, store.Save(ctx, cartPayload{}))
	clock.Advance(36 * time.Hour)

	age, ok := store.Age(ctx)
	require.True(t, ok)
	assert.Equal(t, 36*time.Hour, age)
}

func TestCheckAppVersion(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	// First start: nothing stored yet, not reported as a change
	assert.False(t, CheckAppVersion(ctx, kv, "app_version", "1.3.108"))

	// Same version again
	assert.False(t, CheckAppVersion(ctx, kv, "app_version", "1.3.108"))

	// Upgrade is reported and recorded
	assert.True(t, CheckAppVersion(ctx, kv, "app_version", "1.3.109"))
	stored, err := kv.Get(ctx, "app_version")
	require.NoError(t, err)
	assert.Equal(t, "1.3.109", stored)
}
