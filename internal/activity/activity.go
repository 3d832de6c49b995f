// internal/activity/activity.go

// Package activity keeps the bounded, most-recent-first log of user actions.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"storeadmin/internal/localstore"
)

// MaxEntries is the retention cap. Entries pushed past it are dropped, not
// archived.
const MaxEntries = 5

// Type classifies an activity entry.
type Type string

const (
	TypeCart     Type = "cart"
	TypeView     Type = "view"
	TypeCategory Type = "category"
	TypeCreate   Type = "create"
	TypeUpdate   Type = "update"
	TypeDelete   Type = "delete"
	TypeGeneric  Type = "generic"
)

// Entry is one recorded user action.
type Entry struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is the persisted activity history, newest entry first.
type Log struct {
	local *localstore.Adapter

	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLog restores any persisted history; missing or corrupt data starts an
// empty log.
func NewLog(local *localstore.Adapter) *Log {
	l := &Log{local: local, now: time.Now}
	local.Load(context.Background(), localstore.KeyActivities, &l.entries)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return l
}

// Record prepends a new entry, truncates to the cap, and persists.
func (l *Log) Record(ctx context.Context, t Type, message string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry := Entry{
		ID:        now.UnixMilli(),
		Type:      t,
		Message:   message,
		Timestamp: now,
	}
	// Creation-time ids are monotonic; bump on a same-millisecond collision.
	if len(l.entries) > 0 && entry.ID <= l.entries[0].ID {
		entry.ID = l.entries[0].ID + 1
	}

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	l.local.Save(ctx, localstore.KeyActivities, l.entries)
	return entry
}

// Clear empties the log.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.local.Save(ctx, localstore.KeyActivities, []Entry{})
}

// Entries returns a copy, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Age renders the display-time distance between the entry and now. It is a
// pure function of the two instants and is never persisted.
func Age(e Entry, now time.Time) string {
	if now.Sub(e.Timestamp) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(e.Timestamp, now, "ago", "from now")
}

// CartMessage builds the log message for a cart action on a product.
func CartMessage(action, title string) string {
	switch action {
	case "add":
		return fmt.Sprintf("Added %s to cart", title)
	case "remove":
		return fmt.Sprintf("Removed %s from cart", title)
	case "increase":
		return fmt.Sprintf("Increased quantity of %s", title)
	case "decrease":
		return fmt.Sprintf("Decreased quantity of %s", title)
	default:
		return fmt.Sprintf("Updated %s in cart", title)
	}
}

// ViewMessage builds the log message for viewing a product.
func ViewMessage(title string) string {
	return fmt.Sprintf("Viewed %s", title)
}

// CategoryMessage builds the log message for browsing a category.
func CategoryMessage(category string) string {
	return fmt.Sprintf("Browsed %s category", category)
}
