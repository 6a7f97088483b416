package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
)

const featuredPolicies = 3

// Summary is the role specific landing view.
type Summary struct {
	Role          auth.Role                 `json:"role"`
	Applications  []application.Application `json:"applications"`
	Counts        application.Counts        `json:"counts"`
	Featured      []policy.Policy           `json:"featured,omitempty"`
	TotalPolicies int                       `json:"totalPolicies,omitempty"`
}

// Service builds dashboards.
type Service interface {
	Summary(ctx context.Context, claims auth.Claims) (Summary, error)
}

// Applications lists applications for each audience.
type Applications interface {
	ListMine(ctx context.Context, userID string) ([]application.Application, error)
	ListAssigned(ctx context.Context, agentID string) ([]application.Application, error)
	ListAll(ctx context.Context) ([]application.Application, error)
}

// Policies lists the catalog.
type Policies interface {
	List(ctx context.Context, filter policy.Filter) (policy.Page, error)
}

type service struct {
	apps     Applications
	policies Policies
	logger   *slog.Logger
}

// NewService wires the dashboard.
func NewService(apps Applications, policies Policies, logger *slog.Logger) Service {
	return &service{
		apps:     apps,
		policies: policies,
		logger:   logger.With("component", "dashboard.service"),
	}
}

func (s *service) Summary(ctx context.Context, claims auth.Claims) (Summary, error) {
	out := Summary{Role: claims.Role}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var (
			apps []application.Application
			err  error
		)
		switch claims.Role {
		case auth.RoleAdmin:
			apps, err = s.apps.ListAll(gctx)
		case auth.RoleAgent:
			apps, err = s.apps.ListAssigned(gctx, claims.UserID)
		default:
			apps, err = s.apps.ListMine(gctx, claims.UserID)
		}
		if err != nil {
			return err
		}
		out.Applications = apps
		out.Counts = application.Tally(apps)
		return nil
	})

	switch claims.Role {
	case auth.RoleAdmin:
		g.Go(func() error {
			page, err := s.policies.List(gctx, policy.Filter{Limit: 1})
			if err != nil {
				return err
			}
			out.TotalPolicies = page.Total
			return nil
		})
	case auth.RoleCustomer:
		g.Go(func() error {
			page, err := s.policies.List(gctx, policy.Filter{Limit: featuredPolicies})
			if err != nil {
				return err
			}
			out.Featured = page.Items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard fan-out failed", "role", claims.Role, "user_id", claims.UserID, "error", err)
		return Summary{}, err
	}
	if out.Applications == nil {
		out.Applications = []application.Application{}
	}
	return out, nil
}
