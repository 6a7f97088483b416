package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
)

// ApplicationRepository stores applications on the backend.
type ApplicationRepository struct {
	client *Client
}

// NewApplicationRepository adapts c to application.Repository.
func NewApplicationRepository(c *Client) *ApplicationRepository {
	return &ApplicationRepository{client: c}
}

var _ application.Repository = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (application.Application, error) {
	var created application.Application
	if err := r.client.do(ctx, http.MethodPost, "/applications", nil, app, &created); err != nil {
		return application.Application{}, err
	}
	return created, nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (application.Application, error) {
	var app application.Application
	if err := r.client.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id), nil, nil, &app); err != nil {
		return application.Application{}, err
	}
	return app, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (application.Application, error) {
	var updated application.Application
	if err := r.client.do(ctx, http.MethodPut, "/applications/"+url.PathEscape(app.ID), nil, app, &updated); err != nil {
		return application.Application{}, err
	}
	return updated, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]application.Application, error) {
	return r.list(ctx, url.Values{"userId": {userID}})
}

func (r *ApplicationRepository) ListByAgent(ctx context.Context, agentID string) ([]application.Application, error) {
	return r.list(ctx, url.Values{"agentId": {agentID}})
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]application.Application, error) {
	return r.list(ctx, nil)
}

func (r *ApplicationRepository) list(ctx context.Context, q url.Values) ([]application.Application, error) {
	var out []application.Application
	if err := r.client.do(ctx, http.MethodGet, "/applications", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
