package quote

import (
	"context"
	"time"
)

// Store caches computed quotes for a limited time.
type Store interface {
	Save(ctx context.Context, q Quote, ttl time.Duration) error
	Get(ctx context.Context, id string) (Quote, bool, error)
	Delete(ctx context.Context, id string) error
}
