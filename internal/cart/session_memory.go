package cart

import (
	"context"
	"sync"
	"time"
)

// MemStore substitutes for Redis when none is configured: no TTL, no
// persistence, single process only.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]string{}}
}

func (s *MemStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = value
	return nil
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }
