package backend

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

func TestPolicyListSendsFilterAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/policies", r.URL.Path)
		require.Equal(t, "life", r.URL.Query().Get("category"))
		require.Equal(t, "term", r.URL.Query().Get("search"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "9", r.URL.Query().Get("limit"))
		require.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"p1","title":"Term Life","basePremium":50}],"total":10}`))
	}))
	defer srv.Close()

	repo := NewPolicyRepository(newTestClient(t, srv.URL+"/api/", "secret-key"))
	page, err := repo.List(context.Background(), policy.Filter{Category: "life", Search: "term", Page: 2, Limit: 9})
	require.NoError(t, err)
	require.Equal(t, 10, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, 50.0, page.Items[0].BasePremium)
}

func TestNotFoundMapsToCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	repo := NewPolicyRepository(newTestClient(t, srv.URL, ""))
	_, err := repo.Get(context.Background(), "missing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestServerErrorIncludesTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded" + strings.Repeat("x", 10<<10)))
	}))
	defer srv.Close()

	repo := NewApplicationRepository(newTestClient(t, srv.URL, ""))
	_, err := repo.ListAll(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeBackend))
	require.Contains(t, err.Error(), "status=502")
	require.Contains(t, err.Error(), "upstream exploded")
	require.Less(t, len(err.Error()), 5<<10)
}

func TestApplicationCreateRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/applications", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in application.Application
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "app-1"
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))
	defer srv.Close()

	repo := NewApplicationRepository(newTestClient(t, srv.URL, ""))
	created, err := repo.Create(context.Background(), application.Application{
		PolicyID: "p1",
		UserID:   "u1",
		Status:   application.StatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, "app-1", created.ID)
	require.Equal(t, application.StatusPending, created.Status)
}

func TestApplicationListFilters(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	repo := NewApplicationRepository(newTestClient(t, srv.URL, ""))
	_, err := repo.ListByUser(context.Background(), "u 1")
	require.NoError(t, err)
	_, err = repo.ListByAgent(context.Background(), "ag1")
	require.NoError(t, err)
	require.Equal(t, []string{"userId=u+1", "agentId=ag1"}, seen)
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/policies/p%2F1", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	repo := NewPolicyRepository(newTestClient(t, srv.URL, ""))
	require.NoError(t, repo.Delete(context.Background(), "p/1"))
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func newTestClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, APIKey: apiKey}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}
