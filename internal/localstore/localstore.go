// internal/localstore/localstore.go

// Package localstore is the persistence adapter for client-owned state:
// locally created products, cart items, and the recent-activity log. Each
// logical store lives under a fixed key in a kvstore backend, serialized as
// JSON.
//
// The adapter never fails its callers: a missing or corrupt stored value
// loads as the caller's zero value, and a failed write is logged and
// swallowed so an in-memory state transition is never blocked by storage.
package localstore

import (
	"context"
	"encoding/json"

	"storeadmin/internal/kvstore"
	"storeadmin/internal/logger"
)

// Storage keys for the three durable stores.
const (
	KeyLocalProducts = "local_products"
	KeyCartItems     = "cart_items"
	KeyActivities    = "recent_activities"
)

// Adapter wraps a kvstore backend with tolerant typed load/save semantics.
type Adapter struct {
	store kvstore.Store
}

func NewAdapter(store kvstore.Store) *Adapter {
	return &Adapter{store: store}
}

// Load decodes the value stored under key into v. It returns true only when
// a stored value existed and decoded cleanly; in every other case v is left
// for the caller to default and the condition is logged, never raised.
func (a *Adapter) Load(ctx context.Context, key string, v interface{}) bool {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		logger.LogWarn("Failed to read %s from storage: %v", key, err)
		return false
	}
	if !ok || raw == "" {
		return false
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.LogWarn("Corrupt data under %s, using empty default: %v", key, err)
		return false
	}
	return true
}

// Save serializes v under key. Failures (quota, I/O, encoding) are logged and
// swallowed; the in-memory copy stays authoritative for the session.
func (a *Adapter) Save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.LogWarn("Failed to encode %s for storage: %v", key, err)
		return
	}

	if err := a.store.Set(ctx, key, string(data)); err != nil {
		logger.LogWarn("Failed to persist %s: %v", key, err)
	}
}

// Clear removes the value stored under key. Like Save, failures are logged
// and swallowed.
func (a *Adapter) Clear(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		logger.LogWarn("Failed to clear %s: %v", key, err)
	}
}
