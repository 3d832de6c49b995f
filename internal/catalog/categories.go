// internal/catalog/categories.go
package catalog

import (
	"context"
	"sync"
)

// CategorySource is the slice of the store API the category cache needs.
type CategorySource interface {
	FetchCategories(ctx context.Context) ([]string, error)
}

// Categories caches the remote category label list and accepts
// client-invented labels when a local product uses a category the remote
// does not know. Labels are matched by exact string, no normalization.
type Categories struct {
	source CategorySource

	mu      sync.RWMutex
	list    []string
	fetched bool
}

func NewCategories(source CategorySource) *Categories {
	return &Categories{source: source}
}

// Load returns the cached label list, fetching it from the remote on first
// use. Labels added before the first fetch do not count as a fetch; the
// remote list is still pulled and merged. A fetch failure leaves any cached
// list untouched.
func (c *Categories) Load(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.fetched {
		out := make([]string, len(c.list))
		copy(out, c.list)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	fetched, err := c.source.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Keep labels added before the first fetch completed.
	for _, known := range c.list {
		if !contains(fetched, known) {
			fetched = append(fetched, known)
		}
	}
	c.list = fetched
	c.fetched = true
	out := make([]string, len(c.list))
	copy(out, c.list)
	c.mu.Unlock()
	return out, nil
}

// Add records a label the client invented. Duplicates (exact match) are
// ignored.
func (c *Categories) Add(category string) {
	if category == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !contains(c.list, category) {
		c.list = append(c.list, category)
	}
}

// Known returns the cached labels without fetching.
func (c *Categories) Known() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.list))
	copy(out, c.list)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
