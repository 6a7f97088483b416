package policyrepo

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

// MemoryRepository is an in-memory policy.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]policy.Policy
}

// NewMemoryRepository constructs a repo backed by memory, optionally seeded.
func NewMemoryRepository(seed ...policy.Policy) *MemoryRepository {
	r := &MemoryRepository{
		nextID: 1,
		items:  make(map[string]policy.Policy),
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = r.allocateID()
		}
		r.items[p.ID] = p
	}
	return r
}

// List implements policy.Repository. Items are ordered by creation time, newest first.
func (r *MemoryRepository) List(_ context.Context, filter policy.Filter) (policy.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]policy.Policy, 0, len(r.items))
	for _, p := range r.items {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := policy.Page{Items: []policy.Policy{}, Total: len(matched)}
	start := filter.Offset()
	if start < 0 || start >= len(matched) {
		return page, nil
	}
	end := start + filter.Limit
	if end > len(matched) || end < start {
		end = len(matched)
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page, nil
}

// Get implements policy.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return policy.Policy{}, apperrors.Wrap(apperrors.CodeNotFound, "policy not found", nil)
	}
	return p, nil
}

// Categories implements policy.Repository.
func (r *MemoryRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p.Category)
	}
	return out, nil
}

// Create implements policy.Repository.
func (r *MemoryRepository) Create(_ context.Context, p policy.Policy) (policy.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.allocateID()
	r.items[p.ID] = p
	return p, nil
}

// Update implements policy.Repository.
func (r *MemoryRepository) Update(_ context.Context, p policy.Policy) (policy.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return policy.Policy{}, apperrors.Wrap(apperrors.CodeNotFound, "policy not found", nil)
	}
	r.items[p.ID] = p
	return p, nil
}

// Delete implements policy.Repository.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.Wrap(apperrors.CodeNotFound, "policy not found", nil)
	}
	delete(r.items, id)
	return nil
}

// IncrementApplications implements policy.Repository.
func (r *MemoryRepository) IncrementApplications(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return apperrors.Wrap(apperrors.CodeNotFound, "policy not found", nil)
	}
	p.ApplicationCount++
	r.items[id] = p
	return nil
}

// caller holds the lock
func (r *MemoryRepository) allocateID() string {
	for {
		id := "pol-" + strconv.FormatInt(r.nextID, 10)
		r.nextID++
		if _, taken := r.items[id]; !taken {
			return id
		}
	}
}

var _ policy.Repository = (*MemoryRepository)(nil)
