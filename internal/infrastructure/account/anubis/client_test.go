package anubis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/platform/resilience"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
)

func newTestClient(srv *httptest.Server, cfg Config) *Client {
	cfg.BaseURL = srv.URL
	if cfg.AdminKey == "" {
		cfg.AdminKey = "admin-secret"
	}
	return NewClient(srv.Client(), cfg, logging.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	raw, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func TestClientLogin_SendsCredentialsAndParsesSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-admin-key"); got != "admin-secret" {
			t.Fatalf("unexpected x-admin-key: %s", got)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["email"] != "admin@club.test" || req["password"] != "segreta" {
			t.Fatalf("unexpected credentials: %v", req)
		}

		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "token-abc",
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-123", "email": "admin@club.test"},
		})
	}))
	defer srv.Close()

	session, err := newTestClient(srv, Config{}).Login(context.Background(), "admin@club.test", "segreta")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.UserID != "user-123" || session.AccessToken != "token-abc" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.ExpiresAt.Before(time.Now().Add(59 * time.Minute)) {
		t.Fatalf("unexpected expiry: %s", session.ExpiresAt)
	}
}

func TestClientLogin_SurfacesProviderMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{"message": "Email not confirmed"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv, Config{}).Login(context.Background(), "admin@club.test", "x")
	if err == nil || err.Error() != "Email not confirmed" {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestClientLogin_UnauthorizedWithoutBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, Config{}).Login(context.Background(), "admin@club.test", "x")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := usecase.Message(err); got != "Invalid login credentials" {
		t.Fatalf("unexpected login message %q", got)
	}
}

func TestClientLogout_SendsBearer(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/auth/logout" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Fatalf("unexpected authorization: %s", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv, Config{})
	if err := client.Logout(context.Background(), "token-abc"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := client.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout without token failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one logout call, got %d", calls.Load())
	}
}

func TestClientVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"active": false})
	}))
	defer srv.Close()

	_, err := newTestClient(srv, Config{}).VerifyAccessToken(context.Background(), "invalid-token")
	if !errors.Is(err, ErrInactiveToken) {
		t.Fatalf("expected ErrInactiveToken, got %v", err)
	}
}

func TestClientVerifyAccessToken_UsesIntrospectionCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"active":  true,
			"user_id": "user-cache",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, Config{IntrospectCacheTTL: time.Minute})
	for i := 0; i < 2; i++ {
		session, err := client.VerifyAccessToken(context.Background(), "cached-token")
		if err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
		if session.UserID != "user-cache" {
			t.Fatalf("unexpected user id: %s", session.UserID)
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one introspection call with cache, got %d", calls.Load())
	}
}

func TestClient_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv, Config{CircuitBreaker: resilience.Config{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}})

	for i := 0; i < 2; i++ {
		if _, err := client.Login(context.Background(), "a", "b"); !isCircuitFailure(err) {
			t.Fatalf("expected transient failure, got %v", err)
		}
	}
	_, err := client.Login(context.Background(), "a", "b")
	if !errors.Is(err, resilience.ErrOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, got %d calls", calls.Load())
	}
}

func TestAuthenticator_SignInSignOutNotifies(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token": "token-abc",
				"user":         map[string]string{"id": "user-123"},
			})
		case "/v1/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	auth := NewProvider(newTestClient(srv, Config{})).NewAuthenticator()
	ctx := context.Background()

	var events []bool
	defer auth.OnSessionChange(func(_ user.Session, ok bool) { events = append(events, ok) })()

	if _, err := auth.SignIn(ctx, "admin@club.test", "segreta"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	session, ok := auth.GetSession(ctx)
	if !ok || session.Email != "admin@club.test" {
		t.Fatalf("unexpected session: %+v %v", session, ok)
	}
	if err := auth.SignOut(ctx); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if _, ok := auth.GetSession(ctx); ok {
		t.Fatalf("expected no session after sign out")
	}
	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("unexpected events: %v", events)
	}
}
