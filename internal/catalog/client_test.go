package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"category_bakery":[{"id":"p1","name":"Багет","price":3.5}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	catalog, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog["category_bakery"], 1)
	assert.Equal(t, "Багет", catalog["category_bakery"][0].Name)

	// The snapshot is retained
	assert.True(t, client.Current().Has("p1"))
}

func TestClient_FetchCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories", r.URL.Path)
		w.Write([]byte(`[{"key":"category_bakery"},{"key":"category_desserts"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "category_bakery", categories[0].Key)
	assert.Equal(t, categories, client.Categories())
}

func TestClient_EmptyResponseTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	catalog, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog)
	assert.False(t, catalog.Has("p1"))
}

func TestClient_KeepsLastGoodSnapshotOnFailure(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"category_bakery":[{"id":"p1","name":"Багет","price":3.5}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	_, err := client.FetchProducts(context.Background())
	require.NoError(t, err)

	failing.Store(true)
	_, err = client.FetchProducts(context.Background())
	require.Error(t, err)

	// The previous snapshot still serves lookups
	assert.True(t, client.Current().Has("p1"))
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	_, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
