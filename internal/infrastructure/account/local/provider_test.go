package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("segreta"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	p, err := NewProvider(Config{
		Email:        "Admin@Club.test",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		SessionTTL:   time.Hour,
	}, nil)
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	return p
}

func TestNewProvider_ValidatesConfig(t *testing.T) {
	t.Parallel()

	cases := map[string]Config{
		"missing email":  {PasswordHash: "$2a$04$abc", JWTSecret: "s"},
		"invalid hash":   {Email: "a@b.c", PasswordHash: "plain", JWTSecret: "s"},
		"missing secret": {Email: "a@b.c", PasswordHash: "$2a$04$CQx1dpmlnNmPyeN4AU/5XeyYlSRxGGgWn4fG3/gNGJqNWkp6X6Z2a"},
	}
	for name, cfg := range cases {
		if _, err := NewProvider(cfg, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAuthenticator_SignInAndOut(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	auth := p.NewAuthenticator()
	ctx := context.Background()

	var events []bool
	unsubscribe := auth.OnSessionChange(func(_ user.Session, ok bool) {
		events = append(events, ok)
	})
	defer unsubscribe()

	_, err := auth.SignIn(ctx, "admin@club.test", "sbagliata")
	if !errors.Is(err, ErrInvalidCredentials) || !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := usecase.Message(err); got != "Invalid login credentials" {
		t.Fatalf("unexpected login message %q", got)
	}
	if _, err := auth.SignIn(ctx, "other@club.test", "segreta"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected unknown email to be rejected, got %v", err)
	}
	if _, ok := auth.GetSession(ctx); ok {
		t.Fatalf("expected no session after failures")
	}

	session, err := auth.SignIn(ctx, " ADMIN@club.test ", "segreta")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if session.Email != "admin@club.test" || session.AccessToken == "" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if got, ok := auth.GetSession(ctx); !ok || got.AccessToken != session.AccessToken {
		t.Fatalf("expected current session, got %+v %v", got, ok)
	}

	if err := auth.SignOut(ctx); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if _, ok := auth.GetSession(ctx); ok {
		t.Fatalf("expected no session after sign out")
	}
	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("unexpected session events: %v", events)
	}
}

func TestAuthenticators_AreIndependent(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	first := p.NewAuthenticator()
	second := p.NewAuthenticator()

	if _, err := first.SignIn(context.Background(), "admin@club.test", "segreta"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if _, ok := second.GetSession(context.Background()); ok {
		t.Fatalf("sessions must not leak between authenticators")
	}
}

func TestProvider_VerifyToken(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	session, err := p.issue()
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	verified, err := p.VerifyToken(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if verified.UserID != adminUserID || verified.Email != "admin@club.test" {
		t.Fatalf("unexpected verified session: %+v", verified)
	}

	if _, err := p.VerifyToken(context.Background(), session.AccessToken+"x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected tampered token to fail, got %v", err)
	}

	other := newTestProvider(t)
	other.secret = []byte("another-secret")
	if _, err := other.VerifyToken(context.Background(), session.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign token to fail, got %v", err)
	}
}

func TestProvider_VerifyTokenExpired(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	p.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	session, err := p.issue()
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}
	p.now = time.Now

	if _, err := p.VerifyToken(context.Background(), session.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
	auth := &Authenticator{provider: p}
	auth.holder.Set(session)
	if _, ok := auth.GetSession(context.Background()); ok {
		t.Fatalf("expired session must not be current")
	}
}
