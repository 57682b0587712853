package usecase

import (
	"context"

	"github.com/riskibarqy/club-tournaments/internal/domain/user"
)

// Authenticator is one admin auth session.
type Authenticator interface {
	GetSession(ctx context.Context) (user.Session, bool)
	SignIn(ctx context.Context, identifier, secret string) (user.Session, error)
	SignOut(ctx context.Context) error
	// OnSessionChange registers fn for sign-in, sign-out and expiry events.
	// The returned func removes the subscription.
	OnSessionChange(fn func(session user.Session, ok bool)) (unsubscribe func())
}

// AuthProvider hands every workflow its own Authenticator.
type AuthProvider interface {
	NewAuthenticator() Authenticator
}
