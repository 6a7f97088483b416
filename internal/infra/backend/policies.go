package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
)

// PolicyRepository stores the catalog on the backend.
type PolicyRepository struct {
	client *Client
}

// NewPolicyRepository adapts c to policy.Repository.
func NewPolicyRepository(c *Client) *PolicyRepository {
	return &PolicyRepository{client: c}
}

var _ policy.Repository = (*PolicyRepository)(nil)

func (r *PolicyRepository) List(ctx context.Context, filter policy.Filter) (policy.Page, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("limit", strconv.Itoa(filter.Limit))

	var page policy.Page
	if err := r.client.do(ctx, http.MethodGet, "/policies", q, nil, &page); err != nil {
		return policy.Page{}, err
	}
	return page, nil
}

func (r *PolicyRepository) Get(ctx context.Context, id string) (policy.Policy, error) {
	var p policy.Policy
	if err := r.client.do(ctx, http.MethodGet, "/policies/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return policy.Policy{}, err
	}
	return p, nil
}

func (r *PolicyRepository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := r.client.do(ctx, http.MethodGet, "/policies/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PolicyRepository) Create(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	var created policy.Policy
	if err := r.client.do(ctx, http.MethodPost, "/policies", nil, p, &created); err != nil {
		return policy.Policy{}, err
	}
	return created, nil
}

func (r *PolicyRepository) Update(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	var updated policy.Policy
	if err := r.client.do(ctx, http.MethodPut, "/policies/"+url.PathEscape(p.ID), nil, p, &updated); err != nil {
		return policy.Policy{}, err
	}
	return updated, nil
}

func (r *PolicyRepository) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, "/policies/"+url.PathEscape(id), nil, nil, nil)
}

func (r *PolicyRepository) IncrementApplications(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodPost, "/policies/"+url.PathEscape(id)+"/applications/increment", nil, nil, nil)
}
