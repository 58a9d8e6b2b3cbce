package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prompt_architect/pkg/api/builder"
	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/api/testrunner"
	"prompt_architect/pkg/core/agent"
	"prompt_architect/pkg/core/auth"
	"prompt_architect/pkg/core/llm"
	"prompt_architect/pkg/core/store"
	"prompt_architect/pkg/core/workbench"
	"prompt_architect/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGate struct{}

// Tokens are "<user id>" for users and "admin" for the administrator.
func (fakeGate) Authenticate(_ context.Context, token string) (auth.Identity, error) {
	switch token {
	case "":
		return auth.Identity{}, auth.ErrTokenMissing
	case "unlisted":
		return auth.Identity{}, auth.ErrNotAuthorized
	case "admin":
		return auth.Identity{UserID: "admin", Email: "admin@example.com", Admin: true}, nil
	default:
		return auth.Identity{UserID: token, Email: token + "@example.com"}, nil
	}
}

func (fakeGate) CheckSignup(_ context.Context, email, cpf string) error {
	if cpf == "" {
		return auth.ErrCPFRequired
	}
	if cpf != "12345678900" {
		return auth.ErrNotAuthorized
	}
	return nil
}

type fakeStore struct {
	emails []models.AuthorizedEmail
}

func (s *fakeStore) ListEmails(context.Context) ([]models.AuthorizedEmail, error) {
	return s.emails, nil
}

func (s *fakeStore) AuthorizeEmail(_ context.Context, email string) error {
	for _, e := range s.emails {
		if e.Email == email {
			return store.ErrAlreadyAuthorized
		}
	}
	s.emails = append(s.emails, models.AuthorizedEmail{Email: email})
	return nil
}

func (s *fakeStore) RevokeEmail(_ context.Context, email string) error {
	for i, e := range s.emails {
		if e.Email == email {
			s.emails = append(s.emails[:i], s.emails[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeStore) ListProfiles(context.Context) ([]models.Profile, error) {
	return []models.Profile{{ID: "p1", Email: "a@example.com"}}, nil
}

func (s *fakeStore) DeleteProfile(_ context.Context, id string) error {
	if id != "p1" {
		return store.ErrNotFound
	}
	return nil
}

type fakeProvider struct {
	reply string
	err   error
}

func (p *fakeProvider) Name() string { return "gemini" }

func (p *fakeProvider) GenerateResponse(context.Context, string, string, llm.Options) (string, error) {
	return p.reply, p.err
}

type testEnv struct {
	router   *gin.Engine
	wb       *workbench.Workbench
	provider *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	prov := &fakeProvider{reply: "generated"}
	mgr := agent.NewManagerWithProviders(agent.Config{ActiveProvider: "gemini"}, map[string]llm.Provider{
		"gemini": prov,
		"openai": &fakeProvider{},
	}, nil)
	wb := workbench.New(agent.NewGenerator(mgr, nil), nil, nil, workbench.Options{})
	router := NewRouter(Deps{
		Gate:      fakeGate{},
		Signup:    fakeGate{},
		Access:    &fakeStore{},
		Workbench: wb,
		AgentMgr:  mgr,
	})
	return &testEnv{router: router, wb: wb, provider: prov}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/draft", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httpx.CodeTokenMissing, decode[httpx.ErrorResponse](t, rec).Code)

	rec = env.do(t, http.MethodGet, "/api/draft", "unlisted", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httpx.CodeNotAuthorized, decode[httpx.ErrorResponse](t, rec).Code)
}

func TestDraftEditingFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/draft", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	draft := decode[builder.DraftResponse](t, rec)
	assert.Equal(t, 0.7, draft.Draft.Temperature)
	assert.Equal(t, "Respond ONLY in Português do Brasil.", draft.Prompt)
	assert.Equal(t, workbench.OpIdle, draft.Test.State)

	rec = env.do(t, http.MethodPut, "/api/draft/role", "alice", builder.SetFieldRequest{Value: "chef"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPut, "/api/draft/language", "alice", builder.SetFieldRequest{Value: "en-US"})
	require.Equal(t, http.StatusOK, rec.Code)
	draft = decode[builder.DraftResponse](t, rec)
	assert.Equal(t, "Act as a chef.\n\nRespond ONLY in English (US).", draft.Prompt)

	rec = env.do(t, http.MethodPut, "/api/draft/temperature", "alice", builder.SetFieldRequest{Value: 1.5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, httpx.CodeInvalidValue, decode[httpx.ErrorResponse](t, rec).Code)

	rec = env.do(t, http.MethodPut, "/api/draft/mood", "alice", builder.SetFieldRequest{Value: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/draft/role", "alice", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Sessions are per user.
	rec = env.do(t, http.MethodGet, "/api/prompt", "bob", nil)
	assert.Equal(t, "Respond ONLY in Português do Brasil.", decode[map[string]string](t, rec)["prompt"])

	rec = env.do(t, http.MethodPost, "/api/draft/reset", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[builder.DraftResponse](t, rec).Draft.Role)
}

func TestRunTestEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/draft/task", "alice", builder.SetFieldRequest{Value: "Summarize."})

	rec := env.do(t, http.MethodPost, "/api/test", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[testrunner.TestResponse](t, rec)
	assert.Equal(t, workbench.OpSucceeded, resp.Status.State)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "generated", resp.Result.Preview.Text)

	env.provider.err = errors.New("no key")
	rec = env.do(t, http.MethodPost, "/api/test", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[testrunner.TestResponse](t, rec)
	assert.Equal(t, workbench.OpFailed, resp.Status.State)
	assert.True(t, resp.Result.Failed)
	assert.Contains(t, resp.Result.Preview.Text, "Error: ")

	rec = env.do(t, http.MethodGet, "/api/test", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[testrunner.TestResponse](t, rec).Result.Failed)
}

func TestAssistEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = "  Senior chef  "

	rec := env.do(t, http.MethodPost, "/api/draft/role/assist", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[workbench.AssistResult](t, rec)
	assert.True(t, res.Refined)
	assert.Equal(t, "Senior chef", res.Value)

	rec = env.do(t, http.MethodPost, "/api/draft/temperature/assist", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httpx.CodeNotAssistable, decode[httpx.ErrorResponse](t, rec).Code)
}

func TestSignupCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/signup/check", "", map[string]string{"email": "new@example.com", "cpf": "12345678900"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/signup/check", "", map[string]string{"email": "new@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httpx.CodeCPFRequired, decode[httpx.ErrorResponse](t, rec).Code)

	rec = env.do(t, http.MethodPost, "/api/signup/check", "", map[string]string{"email": "new@example.com", "cpf": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/signup/check", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/emails", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httpx.CodeForbidden, decode[httpx.ErrorResponse](t, rec).Code)

	rec = env.do(t, http.MethodPost, "/api/admin/emails", "admin", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/admin/emails", "admin", map[string]string{"email": "X@Example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/admin/emails", "admin", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/emails", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]models.AuthorizedEmail](t, rec)["emails"], 1)

	rec = env.do(t, http.MethodDelete, "/api/admin/emails/x@example.com", "admin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/admin/emails/x@example.com", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/profiles", "admin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/admin/profiles/p2", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProviderEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/providers", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/providers/switch", "admin", map[string]string{"provider": "openai"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", decode[map[string]any](t, rec)["active_provider"])

	rec = env.do(t, http.MethodPost, "/api/providers/switch", "admin", map[string]string{"provider": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/me", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[auth.Identity](t, rec).Admin)
}
