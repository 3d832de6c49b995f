// internal/user/user.go

// Package user caches the store account being administered.
package user

import (
	"context"
	"sync"

	"storeadmin/internal/model"
)

// Remote is the slice of the store API the profile cache needs.
type Remote interface {
	FetchUser(ctx context.Context, id int64) (model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
}

// Store caches the most recently fetched account. A fetch for the cached id
// is served locally; a fetch for another id replaces the cache.
type Store struct {
	remote Remote

	mu      sync.RWMutex
	current *model.User
}

func NewStore(remote Remote) *Store {
	return &Store{remote: remote}
}

// Get returns the account, from cache when the id matches.
func (s *Store) Get(ctx context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	if s.current != nil && s.current.ID == id {
		u := *s.current
		s.mu.RUnlock()
		return u, nil
	}
	s.mu.RUnlock()

	fetched, err := s.remote.FetchUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	s.current = &fetched
	s.mu.Unlock()
	return fetched, nil
}

// Update puts the account remotely and merges the echo into the cache.
func (s *Store) Update(ctx context.Context, u model.User) (model.User, error) {
	updated, err := s.remote.UpdateUser(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	if updated.ID == 0 {
		updated.ID = u.ID
	}

	s.mu.Lock()
	s.current = &updated
	s.mu.Unlock()
	return updated, nil
}

// Current returns the cached account, if any.
func (s *Store) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.User{}, false
	}
	return *s.current, true
}
