package quotestore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

type entry struct {
	quote     quote.Quote
	expiresAt time.Time
}

// MemoryStore keeps quotes in process memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	quotes map[string]entry
	now    func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string]entry),
		now:    time.Now,
	}
}

// Save implements quote.Store.
func (s *MemoryStore) Save(_ context.Context, q quote.Quote, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.quotes[q.ID] = entry{quote: q, expiresAt: exp}
	return nil
}

// Get implements quote.Store. Expired entries are dropped on read.
func (s *MemoryStore) Get(_ context.Context, id string) (quote.Quote, bool, error) {
	s.mu.RLock()
	e, ok := s.quotes[id]
	s.mu.RUnlock()
	if !ok {
		return quote.Quote{}, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.quotes, id)
		s.mu.Unlock()
		return quote.Quote{}, false, nil
	}
	return e.quote, true, nil
}

// Delete implements quote.Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.quotes, id)
	s.mu.Unlock()
	return nil
}

var _ quote.Store = (*MemoryStore)(nil)
