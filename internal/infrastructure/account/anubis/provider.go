package anubis

import (
	"context"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/account"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
)

// Provider hands out Anubis-backed authenticators sharing one client.
type Provider struct {
	client *Client
	now    func() time.Time
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client, now: time.Now}
}

func (p *Provider) NewAuthenticator() usecase.Authenticator {
	return &Authenticator{client: p.client, now: p.now}
}

// VerifyToken introspects a bearer token presented to the HTTP API.
func (p *Provider) VerifyToken(ctx context.Context, token string) (user.Session, error) {
	return p.client.VerifyAccessToken(ctx, token)
}

// Authenticator is one admin session against Anubis.
type Authenticator struct {
	client *Client
	now    func() time.Time
	holder account.SessionHolder
}

func (a *Authenticator) GetSession(context.Context) (user.Session, bool) {
	return a.holder.Current(a.now())
}

func (a *Authenticator) SignIn(ctx context.Context, identifier, secret string) (user.Session, error) {
	session, err := a.client.Login(ctx, identifier, secret)
	if err != nil {
		return user.Session{}, err
	}
	a.holder.Set(session)
	return session, nil
}

// SignOut revokes the token remotely, then drops the local session.
// The local session is kept when the remote call fails.
func (a *Authenticator) SignOut(ctx context.Context) error {
	if err := a.client.Logout(ctx, a.holder.Token()); err != nil {
		return err
	}
	a.holder.Clear()
	return nil
}

func (a *Authenticator) OnSessionChange(fn func(user.Session, bool)) func() {
	return a.holder.Subscribe(fn)
}
