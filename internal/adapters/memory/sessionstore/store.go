package sessionstore

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/sessionstore"
)

// Store is an in-memory implementation of sessionstore.Store.
// It is safe for concurrent use.
type Store[T any] struct {
	mu sync.RWMutex
	m  map[domain.SessionID]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		m: make(map[domain.SessionID]T),
	}
}

func (s *Store[T]) Get(ctx context.Context, id domain.SessionID) (T, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[id]
	if !ok {
		var zero T
		return zero, sessionstore.ErrNotFound
	}
	return v, nil
}

func (s *Store[T]) Put(ctx context.Context, id domain.SessionID, v T) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = v
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id domain.SessionID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return sessionstore.ErrNotFound
	}
	delete(s.m, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
