// internal/cart/cart.go

// Package cart holds the quantity-tracked shopping cart. Every mutation is a
// synchronous read-modify-write persisted through the local adapter.
package cart

import (
	"context"
	"sync"

	"storeadmin/internal/localstore"
	"storeadmin/internal/model"
)

// Remote is the slice of the store API the cart needs for the optimistic
// remote sync on add.
type Remote interface {
	CreateCart(ctx context.Context, userID int64, items []model.CartItem) (model.Cart, error)
}

// Store is the cart state. A single logical actor owns it per session, so a
// plain mutex around each read-modify-write is all the coordination needed.
type Store struct {
	remote Remote
	local  *localstore.Adapter

	mu    sync.Mutex
	items []model.CartItem
}

// NewStore restores any persisted cart; a missing or corrupt record starts
// an empty cart.
func NewStore(remote Remote, local *localstore.Adapter) *Store {
	s := &Store{remote: remote, local: local}
	local.Load(context.Background(), localstore.KeyCartItems, &s.items)
	return s
}

// Add increments the quantity of an existing line or appends a new line at
// quantity 1.
func (s *Store) Add(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}
	s.items = append(s.items, model.CartItem{ProductID: productID, Quantity: 1})
	s.persist(ctx)
}

// SyncAdd records the add with the remote cart endpoint first, then applies
// it locally. A remote failure leaves the cart untouched and surfaces once;
// the caller decides whether to retry on the next user action.
func (s *Store) SyncAdd(ctx context.Context, userID, productID int64) error {
	_, err := s.remote.CreateCart(ctx, userID, []model.CartItem{{ProductID: productID, Quantity: 1}})
	if err != nil {
		return err
	}
	s.Add(ctx, productID)
	return nil
}

// Increase bumps the quantity of the line by one. Unknown ids are ignored.
func (s *Store) Increase(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			break
		}
	}
	s.persist(ctx)
}

// Decrease lowers the quantity by one with a floor of 1; at quantity 1 it is
// a no-op. Removal is only ever explicit.
func (s *Store) Decrease(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].Quantity > 1 {
			s.items[i].Quantity--
			break
		}
	}
	s.persist(ctx)
}

// Remove drops the line entirely regardless of quantity.
func (s *Store) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is always recomputed from the lines so it can never drift from
// the persisted quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// persist writes the current lines; callers hold the lock. An empty cart is
// stored as an empty list, not a missing key.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []model.CartItem{}
	}
	s.local.Save(ctx, localstore.KeyCartItems, items)
}
