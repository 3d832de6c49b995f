// internal/dashboard/dashboard.go

// Package dashboard derives the admin overview numbers from the merged
// catalog and the category list.
package dashboard

import (
	"context"
	"sync"

	"storeadmin/internal/catalog"
	"storeadmin/internal/logger"
)

// Snapshot is one computed dashboard state.
type Snapshot struct {
	TotalProducts  int            `json:"totalProducts"`
	CategoryCounts map[string]int `json:"categoryCounts"`
}

// Aggregator recomputes the dashboard on demand. Counts are a full
// O(categories x products) pass over the merged set; at catalog scale
// correctness beats incremental bookkeeping.
type Aggregator struct {
	catalog    *catalog.Store
	categories *catalog.Categories

	mu   sync.RWMutex
	last Snapshot
}

func NewAggregator(cat *catalog.Store, categories *catalog.Categories) *Aggregator {
	return &Aggregator{
		catalog:    cat,
		categories: categories,
		last:       Snapshot{CategoryCounts: map[string]int{}},
	}
}

// Refresh fetches the category list, reconciles the merged product set, and
// recomputes the counts. A fetch failure keeps the previous snapshot.
func (a *Aggregator) Refresh(ctx context.Context) (Snapshot, error) {
	labels, err := a.categories.Load(ctx)
	if err != nil {
		return a.Last(), err
	}

	if err := a.catalog.LoadAll(ctx); err != nil {
		return a.Last(), err
	}

	products := a.catalog.Products()
	counts := make(map[string]int, len(labels))
	for _, label := range labels {
		counts[label] = 0
	}
	for _, p := range products {
		if _, known := counts[p.Category]; known {
			counts[p.Category]++
		}
	}

	snapshot := Snapshot{
		TotalProducts:  len(products),
		CategoryCounts: counts,
	}
	a.mu.Lock()
	a.last = snapshot
	a.mu.Unlock()

	logger.LogInfo("Dashboard refreshed: %d products across %d categories", len(products), len(labels))
	return snapshot, nil
}

// Last returns the most recent snapshot without recomputing.
func (a *Aggregator) Last() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}
