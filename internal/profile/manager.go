// Package profile persists the customer's checkout details between orders so
// the form can be prepopulated on the next visit.
package profile

import (
	"context"
	"strings"
	"time"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/record"
)

const (
	// SchemaVersion is the customer profile payload schema.
	SchemaVersion = "1.0.0"

	// TTL keeps customer data for a year.
	TTL = 365 * 24 * time.Hour
)

// Manager holds one customer's stored profile.
type Manager struct {
	records *record.Store[domain.CustomerProfile]
}

// NewManager creates a manager persisting under key in kv.
func NewManager(kv kvstore.Store, key string) *Manager {
	return &Manager{
		records: record.New(kv, key, SchemaVersion, TTL, func() domain.CustomerProfile {
			return domain.CustomerProfile{}
		}),
	}
}

// WithClock overrides the record store's time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.records.WithClock(now)
	return m
}

// Load returns the stored profile, possibly partial or empty.
func (m *Manager) Load(ctx context.Context) domain.CustomerProfile {
	return m.records.Load(ctx)
}

// Save extracts the allow-listed fields from the submitted form values, trims
// whitespace and drops empties. Nothing is written when no field survives, so
// an all-blank form does not overwrite a useful stored profile.
func (m *Manager) Save(ctx context.Context, fields map[string]string) bool {
	extracted := Extract(fields)
	if len(extracted) == 0 {
		return false
	}
	return m.records.Save(ctx, extracted)
}

// Clear deletes the stored profile.
func (m *Manager) Clear(ctx context.Context) {
	m.records.Clear(ctx)
}

// Extract filters fields down to the persistable allow-list with trimmed,
// non-empty values.
func Extract(fields map[string]string) domain.CustomerProfile {
	extracted := domain.CustomerProfile{}
	for _, name := range domain.ProfileFields {
		value := strings.TrimSpace(fields[name])
		if value != "" {
			extracted[name] = value
		}
	}
	return extracted
}
