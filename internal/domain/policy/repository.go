package policy

import "context"

// Repository persists catalog entries. Implementations return a not_found
// coded error for unknown ids. List receives a normalized filter.
type Repository interface {
	List(ctx context.Context, filter Filter) (Page, error)
	Get(ctx context.Context, id string) (Policy, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p Policy) (Policy, error)
	Update(ctx context.Context, p Policy) (Policy, error)
	Delete(ctx context.Context, id string) error
	IncrementApplications(ctx context.Context, id string) error
}

// ImageStorage keeps policy images and returns a public URL for each.
type ImageStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
