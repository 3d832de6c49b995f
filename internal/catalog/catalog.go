// internal/catalog/catalog.go

// Package catalog owns the merged product set: remote API records plus
// locally created products, with two derived indexes (by category, by id)
// that are updated atomically with every mutation.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storeadmin/internal/localstore"
	"storeadmin/internal/logger"
	"storeadmin/internal/model"
)

// Remote is the slice of the store API the catalog needs.
type Remote interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	FetchProduct(ctx context.Context, id int64) (model.Product, error)
}

// Store holds the merged catalog and its derived views. All three views are
// mutated together under one lock; callers can never observe a product in
// the list but missing from an index.
type Store struct {
	remote Remote
	local  *localstore.Adapter

	mu         sync.RWMutex
	products   []model.Product
	byCategory map[string][]model.Product
	byID       map[int64]model.Product
	loaded     bool
}

func NewStore(remote Remote, local *localstore.Adapter) *Store {
	return &Store{
		remote:     remote,
		local:      local,
		byCategory: make(map[string][]model.Product),
		byID:       make(map[int64]model.Product),
	}
}

// LoadAll fetches the remote product list, merges in the locally persisted
// products, and rebuilds every derived index from scratch. This is the single
// reconciliation point between remote and local data; calling it twice with
// unchanged backing data yields an identical merged state. On a remote
// failure the previously cached state is left untouched.
func (s *Store) LoadAll(ctx context.Context) error {
	remote, err := s.remote.FetchProducts(ctx)
	if err != nil {
		return err
	}

	locals := s.loadLocalProducts(ctx)

	merged := make([]model.Product, 0, len(remote)+len(locals))
	merged = append(merged, remote...)
	merged = append(merged, locals...)
	for i := range merged {
		merged[i].Category = strings.TrimSpace(merged[i].Category)
	}

	// Newest first: local products carry creation-time ids, remote ids are
	// small and stable, so descending id order puts recent creations on top.
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID > merged[j].ID })

	byCategory := make(map[string][]model.Product)
	byID := make(map[int64]model.Product, len(merged))
	for _, p := range merged {
		byCategory[p.Category] = append(byCategory[p.Category], p)
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.products = merged
	s.byCategory = byCategory
	s.byID = byID
	s.loaded = true
	s.mu.Unlock()

	logger.LogInfo("Catalog loaded: %d remote, %d local products", len(remote), len(locals))
	return nil
}

// EnsureLoaded runs LoadAll only when no merged state exists yet.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.LoadAll(ctx)
}

// LoadByCategory serves the category bucket from cache when present and
// otherwise fetches the remote, server-side filtered list. Only remote
// products flow through this path; local products in the category show up
// after the next LoadAll. Callers tolerate that window.
func (s *Store) LoadByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)

	s.mu.RLock()
	if bucket, ok := s.byCategory[category]; ok {
		out := copyProducts(bucket)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	fetched, err := s.remote.FetchProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		fetched[i].Category = strings.TrimSpace(fetched[i].Category)
	}

	s.mu.Lock()
	s.byCategory[category] = fetched
	out := copyProducts(fetched)
	s.mu.Unlock()
	return out, nil
}

// LoadByID serves the product from the byID cache when present and otherwise
// fetches the single remote product. The detail cache has its own freshness,
// independent of the bulk list.
func (s *Store) LoadByID(ctx context.Context, id int64) (model.Product, error) {
	s.mu.RLock()
	if p, ok := s.byID[id]; ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	p, err := s.remote.FetchProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	p.Category = strings.TrimSpace(p.Category)

	s.mu.Lock()
	s.byID[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

// Create adds the product to the list and both indexes in one operation.
// Local products are written to the persistence adapter before the in-memory
// views change, so a reload reconstructs the same state. A zero id gets a
// creation-time id (the remote create echo normally supplies one).
func (s *Store) Create(ctx context.Context, p model.Product) model.Product {
	p.Category = strings.TrimSpace(p.Category)
	if p.ID == 0 {
		p.ID = time.Now().UnixMilli()
	}

	if p.IsLocal {
		locals := s.loadLocalProducts(ctx)
		locals = append(locals, p)
		s.local.Save(ctx, localstore.KeyLocalProducts, locals)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = insertSorted(s.products, p)
	s.byCategory[p.Category] = append(s.byCategory[p.Category], p)
	s.byID[p.ID] = p
	return p
}

// Update replaces the product by id in all three views. When the category
// changed, the product moves buckets. Local products overwrite their
// persisted copy first.
func (s *Store) Update(ctx context.Context, p model.Product) bool {
	p.Category = strings.TrimSpace(p.Category)

	s.mu.RLock()
	old, ok := s.byID[p.ID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	if p.IsLocal {
		locals := s.loadLocalProducts(ctx)
		for i := range locals {
			if locals[i].ID == p.ID {
				locals[i] = p
			}
		}
		s.local.Save(ctx, localstore.KeyLocalProducts, locals)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
		}
	}
	if old.Category != p.Category {
		s.byCategory[old.Category] = removeByID(s.byCategory[old.Category], p.ID)
		s.byCategory[p.Category] = append(s.byCategory[p.Category], p)
	} else {
		bucket := s.byCategory[p.Category]
		for i := range bucket {
			if bucket[i].ID == p.ID {
				bucket[i] = p
			}
		}
	}
	s.byID[p.ID] = p
	return true
}

// Delete removes the product from the list, every category bucket, and the
// byID cache. A local product's persisted entry is removed first so a later
// LoadAll cannot resurrect it.
func (s *Store) Delete(ctx context.Context, id int64) {
	s.mu.RLock()
	old, known := s.byID[id]
	s.mu.RUnlock()

	if !known || old.IsLocal {
		locals := s.loadLocalProducts(ctx)
		kept := locals[:0]
		for _, p := range locals {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.local.Save(ctx, localstore.KeyLocalProducts, kept)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = removeByID(s.products, id)
	for category, bucket := range s.byCategory {
		s.byCategory[category] = removeByID(bucket, id)
	}
	delete(s.byID, id)
}

// Products returns a copy of the merged product list, newest id first.
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProducts(s.products)
}

// Get returns the cached product by id without touching the network.
func (s *Store) Get(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// Loaded reports whether a full merge has happened.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// loadLocalProducts reads the persisted local-product list, forcing the
// origin flag in case an older stored shape lacked it.
func (s *Store) loadLocalProducts(ctx context.Context) []model.Product {
	var locals []model.Product
	s.local.Load(ctx, localstore.KeyLocalProducts, &locals)
	for i := range locals {
		locals[i].IsLocal = true
	}
	return locals
}

// insertSorted places p into list keeping descending id order.
func insertSorted(list []model.Product, p model.Product) []model.Product {
	i := sort.Search(len(list), func(i int) bool { return list[i].ID < p.ID })
	list = append(list, model.Product{})
	copy(list[i+1:], list[i:])
	list[i] = p
	return list
}

func removeByID(list []model.Product, id int64) []model.Product {
	kept := make([]model.Product, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

func copyProducts(list []model.Product) []model.Product {
	out := make([]model.Product, len(list))
	copy(out, list)
	return out
}
