package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	return NewMongoStore(db)
}

func TestMongoStore(t *testing.T) {
	ctx := context.Background()
	store := setupTestMongo(t)

	_, err := store.Get(ctx, "cart:42")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "cart:42", `{"p1":{"quantity":3}}`))

	value, err := store.Get(ctx, "cart:42")
	require.NoError(t, err)
	assert.Equal(t, `{"p1":{"quantity":3}}`, value)

	// Upsert replaces the existing document
	require.NoError(t, store.Set(ctx, "cart:42", "{}"))
	value, err = store.Get(ctx, "cart:42")
	require.NoError(t, err)
	assert.Equal(t, "{}", value)

	require.NoError(t, store.Delete(ctx, "cart:42"))
	_, err = store.Get(ctx, "cart:42")
	assert.ErrorIs(t, err, ErrNotFound)
}
