package applicationrepo

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

// MemoryRepository is an in-memory application.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]application.Application
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		items:  make(map[string]application.Application),
	}
}

// Create implements application.Repository.
func (r *MemoryRepository) Create(_ context.Context, app application.Application) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = "app-" + strconv.FormatInt(r.nextID, 10)
	r.nextID++
	r.items[app.ID] = app
	return app, nil
}

// Get implements application.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.items[id]
	if !ok {
		return application.Application{}, apperrors.Wrap(apperrors.CodeNotFound, "application not found", nil)
	}
	return app, nil
}

// Update implements application.Repository.
func (r *MemoryRepository) Update(_ context.Context, app application.Application) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[app.ID]; !ok {
		return application.Application{}, apperrors.Wrap(apperrors.CodeNotFound, "application not found", nil)
	}
	r.items[app.ID] = app
	return app, nil
}

// ListByUser implements application.Repository.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]application.Application, error) {
	return r.filter(func(a application.Application) bool { return a.UserID == userID }), nil
}

// ListByAgent implements application.Repository.
func (r *MemoryRepository) ListByAgent(_ context.Context, agentID string) ([]application.Application, error) {
	return r.filter(func(a application.Application) bool { return a.AgentID == agentID }), nil
}

// ListAll implements application.Repository.
func (r *MemoryRepository) ListAll(_ context.Context) ([]application.Application, error) {
	return r.filter(func(application.Application) bool { return true }), nil
}

// filter returns matches newest first.
func (r *MemoryRepository) filter(keep func(application.Application) bool) []application.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]application.Application, 0, len(r.items))
	for _, app := range r.items {
		if keep(app) {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

var _ application.Repository = (*MemoryRepository)(nil)
