package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

func TestSummaryPerRole(t *testing.T) {
	apps := &stubApps{
		all: []application.Application{
			{ID: "a1", UserID: "c1", AgentID: "ag1", Status: application.StatusPending},
			{ID: "a2", UserID: "c1", Status: application.StatusApproved},
			{ID: "a3", UserID: "c2", AgentID: "ag1", Status: application.StatusRejected},
		},
	}
	policies := &stubPolicies{page: policy.Page{Items: []policy.Policy{{ID: "p1"}, {ID: "p2"}}, Total: 14}}
	svc := NewService(apps, policies, slog.New(slog.NewTextHandler(io.Discard, nil)))

	customer, err := svc.Summary(context.Background(), auth.Claims{UserID: "c1", Role: auth.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, customer.Applications, 2)
	require.Equal(t, application.Counts{Total: 2, Pending: 1, Approved: 1}, customer.Counts)
	require.Len(t, customer.Featured, 2)
	require.Zero(t, customer.TotalPolicies)

	agent, err := svc.Summary(context.Background(), auth.Claims{UserID: "ag1", Role: auth.RoleAgent})
	require.NoError(t, err)
	require.Len(t, agent.Applications, 2)
	require.Equal(t, 1, agent.Counts.Pending)
	require.Empty(t, agent.Featured)

	admin, err := svc.Summary(context.Background(), auth.Claims{UserID: "root", Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 3, admin.Counts.Total)
	require.Equal(t, 14, admin.TotalPolicies)
	require.Equal(t, auth.RoleAdmin, admin.Role)
}

func TestSummaryPropagatesErrors(t *testing.T) {
	apps := &stubApps{}
	policies := &stubPolicies{err: apperrors.Wrap(apperrors.CodeBackend, "backend down", nil)}
	svc := NewService(apps, policies, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Summary(context.Background(), auth.Claims{UserID: "root", Role: auth.RoleAdmin})
	require.True(t, apperrors.IsCode(err, apperrors.CodeBackend))
}

func TestSummaryEmptyApplicationsIsNotNil(t *testing.T) {
	svc := NewService(&stubApps{}, &stubPolicies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := svc.Summary(context.Background(), auth.Claims{UserID: "ag9", Role: auth.RoleAgent})
	require.NoError(t, err)
	require.NotNil(t, summary.Applications)
}

type stubApps struct {
	all []application.Application
}

func (s *stubApps) ListMine(_ context.Context, userID string) ([]application.Application, error) {
	return s.filter(func(a application.Application) bool { return a.UserID == userID }), nil
}

func (s *stubApps) ListAssigned(_ context.Context, agentID string) ([]application.Application, error) {
	return s.filter(func(a application.Application) bool { return a.AgentID == agentID }), nil
}

func (s *stubApps) ListAll(context.Context) ([]application.Application, error) {
	return s.all, nil
}

func (s *stubApps) filter(keep func(application.Application) bool) []application.Application {
	var out []application.Application
	for _, a := range s.all {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type stubPolicies struct {
	page policy.Page
	err  error
}

func (s *stubPolicies) List(context.Context, policy.Filter) (policy.Page, error) {
	return s.page, s.err
}
