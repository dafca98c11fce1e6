package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MemStore backs the catalog when no database is configured. Single process
// only; contents vanish on restart.
type MemStore struct {
	mu  sync.RWMutex
	m   map[string]Product
	seq map[string]int
	n   int
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}, seq: map[string]int{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = "p_" + uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	s.n++
	s.m[p.ID] = p
	s.seq[p.ID] = s.n
	return p, nil
}

func (s *MemStore) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q = q.normalized()

	s.mu.RLock()
	all := lo.Values(s.m)
	seq := make(map[string]int, len(s.seq))
	for id, n := range s.seq {
		seq[id] = n
	}
	s.mu.RUnlock()

	// Newest first; insertion order breaks created_at ties.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return seq[all[i].ID] > seq[all[j].ID]
	})

	matched := lo.Filter(all, func(p Product, _ int) bool { return matches(q, p) })

	total := len(matched)
	start := (q.Page - 1) * q.PerPage
	if start > total {
		start = total
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}

	return SearchResult{
		Items: matched[start:end],
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.PerPage),
	}, nil
}

func matches(q SearchQuery, p Product) bool {
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	return true
}
