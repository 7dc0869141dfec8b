package kvstore

import (
	"context"
	"errors"
)

// Store is a durable key -> string store, the localStorage analog behind the
// versioned record layer. Implementations must treat a missing key as
// ErrNotFound, not an empty value.
// Consumers define this interface, not the backend implementations.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
