package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/apictl"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/config"
)

type stubLoader struct {
	caller auth.Caller
	err    error

	gotAccount  string
	gotPassword string
}

func (s *stubLoader) LoadCredential(ctx context.Context, account, password string) (auth.Caller, error) {
	s.gotAccount = account
	s.gotPassword = password
	if s.err != nil {
		return auth.Caller{}, s.err
	}
	return s.caller, nil
}

type staticPublic auth.PermissionSet

func (s staticPublic) Public() auth.PermissionSet {
	return auth.PermissionSet(s)
}

// marshalFailProcessor verifies like the real processor but cannot issue.
type marshalFailProcessor struct {
	*auth.TokenProcessor
}

func (p *marshalFailProcessor) Marshal(auth.Caller) (string, error) {
	return "", apictl.ErrTokenCreateFailed
}

func testTokenProcessor() *auth.TokenProcessor {
	return auth.NewTokenProcessor(config.TokenConfig{
		Secret: "test-secret",
		Issuer: "authgate-test",
		TTL:    time.Hour,
	})
}

func encodeLoginPayload(t *testing.T, account, password string) string {
	t.Helper()
	raw, err := json.Marshal(apictl.LoginRequest{Account: account, Password: password})
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

type capturingHandler struct {
	invoked bool
	account string
	bound   bool
}

func (h *capturingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.invoked = true
	h.account, h.bound = auth.CallerFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func newTestGate(t *testing.T, deps GateDependencies, opts ...GateOption) (func(http.Handler) http.Handler, *capturingHandler) {
	t.Helper()
	if deps.Tokens == nil {
		deps.Tokens = testTokenProcessor()
	}
	if deps.Credentials == nil {
		deps.Credentials = &stubLoader{}
	}
	if deps.Public == nil {
		deps.Public = staticPublic{}
	}
	gate, err := NewGateMiddleware(deps, opts...)
	require.NoError(t, err)
	return gate, &capturingHandler{}
}

func TestNewGateMiddlewareValidatesDependencies(t *testing.T) {
	processor := testTokenProcessor()
	loader := &stubLoader{}
	public := staticPublic{}

	_, err := NewGateMiddleware(GateDependencies{Credentials: loader, Public: public})
	assert.ErrorContains(t, err, "token processor")

	_, err = NewGateMiddleware(GateDependencies{Tokens: processor, Public: public})
	assert.ErrorContains(t, err, "credential loader")

	_, err = NewGateMiddleware(GateDependencies{Tokens: processor, Credentials: loader})
	assert.ErrorContains(t, err, "public permission source")
}

func TestGateAnonymousRequest(t *testing.T) {
	public := staticPublic{{Method: "GET", Pattern: "/health"}}

	t.Run("public route allowed", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{Public: public})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/health", nil)
		gate(handler).ServeHTTP(rec, r)

		assert.True(t, handler.invoked)
		assert.True(t, handler.bound)
		assert.Equal(t, auth.AnonymousName, handler.account)
		assert.Empty(t, rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("missing request-type header defaults to anonymous", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{Public: public})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/health", nil)
		r.Header.Set(apictl.HeaderRequestType, "")
		gate(handler).ServeHTTP(rec, r)

		assert.True(t, handler.invoked)
	})

	t.Run("non-public route rejected", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{Public: public})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders", nil)
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseInsufficientPrivileges), rec.Header().Get(apictl.HeaderResponseType))
	})
}

func TestGateInvalidRequestType(t *testing.T) {
	gate, handler := newTestGate(t, GateDependencies{})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set(apictl.HeaderRequestType, "BOGUS")
	gate(handler).ServeHTTP(rec, r)

	assert.False(t, handler.invoked)
	assert.Equal(t, string(apictl.ResponseTokenInvalid), rec.Header().Get(apictl.HeaderResponseType))
}

func TestGateLogin(t *testing.T) {
	processor := testTokenProcessor()
	caller := auth.Caller{
		Account:     "alice",
		Domain:      "core",
		Permissions: auth.PermissionSet{{Method: "POST", Pattern: "/api/login"}},
		ExpiresAt:   time.Now().Add(time.Hour).Truncate(time.Second),
	}

	t.Run("success issues a verifiable token", func(t *testing.T) {
		loader := &stubLoader{caller: caller}
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor, Credentials: loader})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestLogin))
		r.Header.Set(apictl.HeaderRequestContent, encodeLoginPayload(t, "alice", "s3cret"))
		gate(handler).ServeHTTP(rec, r)

		assert.True(t, handler.invoked)
		assert.Equal(t, "alice", handler.account)
		assert.Equal(t, "alice", loader.gotAccount)
		assert.Equal(t, "s3cret", loader.gotPassword)
		assert.Equal(t, string(apictl.ResponseLoginSuccess), rec.Header().Get(apictl.HeaderResponseType))

		raw := rec.Header().Get(apictl.HeaderResponseResult)
		require.NotEmpty(t, raw)
		decoded, err := base64.RawURLEncoding.DecodeString(raw)
		require.NoError(t, err)
		var result apictl.LoginResponse
		require.NoError(t, json.Unmarshal(decoded, &result))
		assert.Equal(t, caller.ExpiresAt.Unix(), result.Expiry)

		verified, err := processor.Unmarshal(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", verified.Account)
		assert.Equal(t, "core", verified.Domain)
	})

	t.Run("credential failure", func(t *testing.T) {
		loader := &stubLoader{err: apictl.ErrLoadCredentialFailed}
		gate, handler := newTestGate(t, GateDependencies{Credentials: loader})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestLogin))
		r.Header.Set(apictl.HeaderRequestContent, encodeLoginPayload(t, "alice", "wrong"))
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseAuthenticationFailed), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("malformed payload", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestLogin))
		r.Header.Set(apictl.HeaderRequestContent, "!!not-base64!!")
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseTokenInvalid), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("missing payload", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestLogin))
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseTokenInvalid), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("token issue failure does not fail the login", func(t *testing.T) {
		loader := &stubLoader{caller: caller}
		gate, handler := newTestGate(t, GateDependencies{
			Tokens:      &marshalFailProcessor{TokenProcessor: processor},
			Credentials: loader,
		})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestLogin))
		r.Header.Set(apictl.HeaderRequestContent, encodeLoginPayload(t, "alice", "s3cret"))
		gate(handler).ServeHTTP(rec, r)

		assert.True(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseLoginSuccess), rec.Header().Get(apictl.HeaderResponseType))
		assert.Empty(t, rec.Header().Get(apictl.HeaderResponseResult))
	})
}

func TestGateToken(t *testing.T) {
	processor := testTokenProcessor()

	issue := func(t *testing.T, caller auth.Caller) string {
		t.Helper()
		token, err := processor.Marshal(caller)
		require.NoError(t, err)
		return token
	}

	t.Run("valid token", func(t *testing.T) {
		token := issue(t, auth.Caller{
			Account:     "alice",
			Domain:      "core",
			Permissions: auth.PermissionSet{{Method: "GET", Pattern: "/api/orders/{id}"}},
			ExpiresAt:   time.Now().Add(time.Hour),
		})
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders/42", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestToken))
		r.Header.Set(apictl.HeaderRequestContent, token)
		gate(handler).ServeHTTP(rec, r)

		assert.True(t, handler.invoked)
		assert.Equal(t, "alice", handler.account)
		assert.Equal(t, string(apictl.ResponseTokenAvailable), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("expired token never reaches the handler", func(t *testing.T) {
		token := issue(t, auth.Caller{
			Account:     "alice",
			Domain:      "core",
			Permissions: auth.PermissionSet{{Method: "GET", Pattern: "/api/orders/{id}"}},
			ExpiresAt:   time.Now().Add(-time.Hour),
		})
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders/42", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestToken))
		r.Header.Set(apictl.HeaderRequestContent, token)
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseTokenExpired), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("garbage token", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders/42", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestToken))
		r.Header.Set(apictl.HeaderRequestContent, "not.a.token")
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseTokenInvalid), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("missing token payload", func(t *testing.T) {
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders/42", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestToken))
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseTokenInvalid), rec.Header().Get(apictl.HeaderResponseType))
	})

	t.Run("token without privileges for the route", func(t *testing.T) {
		token := issue(t, auth.Caller{
			Account:     "alice",
			Domain:      "core",
			Permissions: auth.PermissionSet{{Method: "GET", Pattern: "/api/orders/{id}"}},
			ExpiresAt:   time.Now().Add(time.Hour),
		})
		gate, handler := newTestGate(t, GateDependencies{Tokens: processor})

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("DELETE", "/admin/permissions/7", nil)
		r.Header.Set(apictl.HeaderRequestType, string(apictl.RequestToken))
		r.Header.Set(apictl.HeaderRequestContent, token)
		gate(handler).ServeHTTP(rec, r)

		assert.False(t, handler.invoked)
		assert.Equal(t, string(apictl.ResponseInsufficientPrivileges), rec.Header().Get(apictl.HeaderResponseType))
	})
}

func TestGateSkipper(t *testing.T) {
	gate, handler := newTestGate(t, GateDependencies{}, WithSkipper(func(r *http.Request) bool {
		return r.URL.Path == "/metrics"
	}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/metrics", nil)
	r.Header.Set(apictl.HeaderRequestType, "BOGUS")
	gate(handler).ServeHTTP(rec, r)

	// Skipped requests bypass classification entirely and carry no caller.
	assert.True(t, handler.invoked)
	assert.False(t, handler.bound)
	assert.Empty(t, rec.Header().Get(apictl.HeaderResponseType))
}

func TestGateCallerBindingScopedToRequest(t *testing.T) {
	public := staticPublic{{Method: "GET", Pattern: "/health"}}
	gate, handler := newTestGate(t, GateDependencies{Public: public})

	ctx := context.Background()
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil).WithContext(ctx)
	gate(handler).ServeHTTP(rec, r)

	require.True(t, handler.bound)
	_, bound := auth.CallerFromContext(ctx)
	assert.False(t, bound)
}
