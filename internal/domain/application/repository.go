package application

import (
	"context"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

// Repository persists applications. Get returns a not_found coded error for
// unknown ids.
type Repository interface {
	Create(ctx context.Context, app Application) (Application, error)
	Get(ctx context.Context, id string) (Application, error)
	Update(ctx context.Context, app Application) (Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	ListByAgent(ctx context.Context, agentID string) ([]Application, error)
	ListAll(ctx context.Context) ([]Application, error)
}

// PolicyCatalog is the part of the policy store applications depend on.
type PolicyCatalog interface {
	Get(ctx context.Context, id string) (policy.Policy, error)
	IncrementApplications(ctx context.Context, id string) error
}

// QuoteSource loads cached quotes.
type QuoteSource interface {
	Get(ctx context.Context, id string) (quote.Quote, error)
}
