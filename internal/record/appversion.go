package record

import (
	"context"
	"errors"
	"log"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
)

// CheckAppVersion records the running app version under key and reports
// whether it changed since the previous start. Cart and customer records are
// deliberately left untouched on a version change; only their own schema
// versions govern resets.
func CheckAppVersion(ctx context.Context, kv kvstore.Store, key, current string) bool {
	stored, err := kv.Get(ctx, key)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		log.Printf("failed to read app version: %v", err)
		return false
	}

	if stored == current {
		return false
	}

	if err := kv.Set(ctx, key, current); err != nil {
		log.Printf("failed to store app version: %v", err)
	}
	return stored != ""
}
