package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/dashboard"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
	"github.com/yanqian/lifesure-gateway/internal/infra/applicationrepo"
	"github.com/yanqian/lifesure-gateway/internal/infra/config"
	"github.com/yanqian/lifesure-gateway/internal/infra/imagestore"
	"github.com/yanqian/lifesure-gateway/internal/infra/policyrepo"
	"github.com/yanqian/lifesure-gateway/internal/infra/quotestore"
)

const baselineQuote = `{"policyId":"pol-1","age":30,"gender":"male","coverageAmount":100000,"duration":10,"smoker":false,"occupationRisk":"low","healthRating":"excellent"}`

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_QuoteLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/quotes/options", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts quote.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Contains(t, opts.CoverageAmounts, int64(100000))

	rec = env.do(http.MethodPost, "/api/v1/quotes", baselineQuote, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var q quote.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	require.Equal(t, int64(50), q.MonthlyPremium)
	require.Equal(t, int64(600), q.AnnualPremium)
	require.Equal(t, int64(6000), q.TotalPremium)
	require.Empty(t, q.UserID)

	rec = env.do(http.MethodGet, "/api/v1/quotes/"+q.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/quotes/"+q.ID, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/quotes/"+q.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_QuoteAttachesUserWhenAuthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/v1/quotes", baselineQuote, env.token(t, "cust-1", auth.RoleCustomer))
	require.Equal(t, http.StatusCreated, rec.Code)
	var q quote.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	require.Equal(t, "cust-1", q.UserID)

	rec = env.do(http.MethodPost, "/api/v1/quotes", baselineQuote, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_QuoteErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/quotes", `{"policyId":"pol-1","age":"thirty"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = env.do(http.MethodPost, "/api/v1/quotes", `{"policyId":"pol-1","age":30,"coverageAmount":100000,"duration":0}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_input", body["error"]["code"])
	require.Contains(t, body["error"]["message"], "duration")

	rec = env.do(http.MethodPost, "/api/v1/quotes", `{"policyId":"nope","age":30,"coverageAmount":100000,"duration":10}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PolicyCatalogAndAdminGuard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/policies?category=life&limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page policy.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, 5, page.Limit)

	rec = env.do(http.MethodGet, "/api/v1/policies?page=4611686018427387905&limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	require.Empty(t, page.Items)

	rec = env.do(http.MethodGet, "/api/v1/policies?page=abc", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/policies/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"categories":["life"]}`, rec.Body.String())

	create := `{"title":"Senior Care","category":"senior","minAge":50,"maxAge":80,"minCoverage":50000,"maxCoverage":250000,"basePremium":45}`
	rec = env.do(http.MethodPost, "/api/v1/admin/policies", create, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/admin/policies", create, env.token(t, "cust-1", auth.RoleCustomer))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	adminToken := env.token(t, "root", auth.RoleAdmin)
	rec = env.do(http.MethodPost, "/api/v1/admin/policies", create, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created policy.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(http.MethodGet, "/api/v1/policies/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/admin/policies/"+created.ID, "", adminToken)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/policies/"+created.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PolicyImageUpload(t *testing.T) {
	env := newTestEnv(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/policies/pol-1/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token(t, "root", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated policy.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotEmpty(t, updated.ImageURL)

	rec = env.do(http.MethodGet, updated.ImageURL, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, png, rec.Body.Bytes())
}

func TestRouter_ApplicationFlow(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "cust-1", auth.RoleCustomer)
	agent := env.token(t, "agent-1", auth.RoleAgent)
	admin := env.token(t, "root", auth.RoleAdmin)

	rec := env.do(http.MethodPost, "/api/v1/quotes", baselineQuote, customer)
	require.Equal(t, http.StatusCreated, rec.Code)
	var q quote.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))

	rec = env.do(http.MethodGet, "/api/v1/applications/prefill/"+q.ID, "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/applications/prefill/"+q.ID, "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	var draft application.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	require.Equal(t, "pol-1", draft.PolicyID)
	require.Equal(t, int64(50), draft.MonthlyPremium)

	submit := `{"quoteId":"` + q.ID + `","applicant":{"fullName":"Jane Doe","email":"jane@example.com","nationalId":"1990","address":"12 Lake Road"},"nominee":{"name":"John Doe","relationship":"spouse"}}`
	rec = env.do(http.MethodPost, "/api/v1/applications", submit, env.token(t, "cust-2", auth.RoleCustomer))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/applications", submit, customer)
	require.Equal(t, http.StatusCreated, rec.Code)
	var app application.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	require.Equal(t, application.StatusPending, app.Status)

	rec = env.do(http.MethodGet, "/api/v1/applications/mine", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), app.ID)

	rec = env.do(http.MethodGet, "/api/v1/agent/applications", "", customer)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPatch, "/api/v1/admin/applications/"+app.ID+"/agent", `{"agentId":"agent-1"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/agent/applications", "", agent)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), app.ID)

	rec = env.do(http.MethodPatch, "/api/v1/agent/applications/"+app.ID+"/status", `{"status":"approved","feedback":"welcome"}`, agent)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPatch, "/api/v1/agent/applications/"+app.ID+"/status", `{"status":"rejected"}`, agent)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/admin/applications", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/dashboard", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary dashboard.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.Counts.Approved)

	rec = env.do(http.MethodGet, "/api/v1/dashboard", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.TotalPolicies)
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/quotes", nil)
	req.Header.Set("Origin", "https://app.lifesure.example")
	rec := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.lifesure.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/quotes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, set := rec.Header()["Access-Control-Allow-Origin"]
	require.False(t, set)
}

func TestResolveOrigin(t *testing.T) {
	allowed := []string{"https://app.lifesure.example", "https://admin.lifesure.example"}
	require.Equal(t, "https://ADMIN.lifesure.example", resolveOrigin("https://ADMIN.lifesure.example", allowed))
	require.Empty(t, resolveOrigin("https://evil.example", allowed))
	require.Empty(t, resolveOrigin("", allowed))
	require.Equal(t, "*", resolveOrigin("https://any.example", nil))
	require.Equal(t, "*", resolveOrigin("https://any.example", []string{"*"}))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("2.2.2.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("1.1.1.1"))

	now = now.Add(10 * time.Minute)
	limiter.allow("3.3.3.3")
	require.NotContains(t, limiter.visitors, "2.2.2.2")
}

func TestRouter_RateLimitResponds429(t *testing.T) {
	env := newTestEnvWithLimit(t, config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/healthz", "", "").Code)
	rec := env.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

type testEnv struct {
	server  *http.Server
	authSvc auth.Service
}

func newTestEnv(t *testing.T) testEnv {
	return newTestEnvWithLimit(t, config.RateLimitConfig{})
}

func newTestEnvWithLimit(t *testing.T, limit config.RateLimitConfig) testEnv {
	t.Helper()
	logger := newTestLogger()
	policies := policyrepo.NewMemoryRepository(policy.Policy{
		ID:          "pol-1",
		Title:       "Term Life",
		Category:    "life",
		MinAge:      18,
		MaxAge:      65,
		MinCoverage: 50000,
		MaxCoverage: 2000000,
		BasePremium: 50,
	})
	images := imagestore.NewMemoryStorage()
	policySvc := policy.NewService(policies, images, logger)
	quoteSvc := quote.NewService(quote.Config{CacheTTL: time.Minute}, policies, quotestore.NewMemoryStore(), logger)
	appSvc := application.NewService(applicationrepo.NewMemoryRepository(), policies, quoteSvc, logger)
	dashSvc := dashboard.NewService(appSvc, policySvc, logger)
	authSvc := auth.NewService(auth.Config{Secret: "test-secret"}, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"https://app.lifesure.example"},
			RateLimit:      limit,
		},
	}
	handler := NewHandler(quoteSvc, policySvc, appSvc, dashSvc, images, logger)
	return testEnv{server: NewRouter(cfg, handler, authSvc), authSvc: authSvc}
}

func (e testEnv) token(t *testing.T, userID string, role auth.Role) string {
	t.Helper()
	token, err := e.authSvc.IssueToken(context.Background(), auth.IssueRequest{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func (e testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
