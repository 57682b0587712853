package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/account"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionTTL = 8 * time.Hour
	defaultIssuer     = "club-tournaments"
	adminUserID       = "admin"

	msgInvalidCredentials = "Invalid login credentials"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidToken       = errors.New("invalid access token")
)

type Config struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
	Issuer       string
}

// Provider authenticates the single configured admin and issues HS256 access tokens.
type Provider struct {
	email    string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	issuer   string
	tokenIDs id.Generator
	now      func() time.Time
	logger   *logging.Logger
}

func NewProvider(cfg Config, logger *logging.Logger) (*Provider, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		return nil, fmt.Errorf("admin email is required")
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("admin jwt secret is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = defaultIssuer
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Provider{
		email:    email,
		hash:     []byte(cfg.PasswordHash),
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.SessionTTL,
		issuer:   cfg.Issuer,
		tokenIDs: id.NewXIDGenerator("tok_"),
		now:      time.Now,
		logger:   logger,
	}, nil
}

func (p *Provider) NewAuthenticator() usecase.Authenticator {
	return &Authenticator{provider: p}
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *Provider) signIn(email, password string) (user.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != p.email {
		_ = bcrypt.CompareHashAndPassword(p.hash, []byte(password))
		return user.Session{}, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(password)); err != nil {
		return user.Session{}, invalidCredentials()
	}
	return p.issue()
}

// invalidCredentials keeps the login page text apart from the sentinel.
func invalidCredentials() error {
	return &usecase.Error{Kind: usecase.ErrUnauthorized, Message: msgInvalidCredentials, Err: ErrInvalidCredentials}
}

func (p *Provider) issue() (user.Session, error) {
	tokenID, err := p.tokenIDs.NewID()
	if err != nil {
		return user.Session{}, fmt.Errorf("generate token id: %w", err)
	}

	now := p.now().UTC()
	expiresAt := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: p.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   adminUserID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return user.Session{}, fmt.Errorf("sign access token: %w", err)
	}

	return user.Session{
		UserID:      adminUserID,
		Email:       p.email,
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifyToken validates an access token issued by this provider.
func (p *Provider) VerifyToken(_ context.Context, raw string) (user.Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return user.Session{}, ErrInvalidToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var c claims
	token, err := parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return user.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !c.VerifyIssuer(p.issuer, true) || c.Subject != adminUserID {
		return user.Session{}, ErrInvalidToken
	}
	if c.ExpiresAt == nil || !p.now().Before(c.ExpiresAt.Time) {
		return user.Session{}, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}

	return user.Session{
		UserID:      c.Subject,
		Email:       c.Email,
		AccessToken: raw,
		ExpiresAt:   c.ExpiresAt.Time,
	}, nil
}

// Authenticator is one admin session against the local provider.
type Authenticator struct {
	provider *Provider
	holder   account.SessionHolder
}

func (a *Authenticator) GetSession(context.Context) (user.Session, bool) {
	return a.holder.Current(a.provider.now())
}

func (a *Authenticator) SignIn(ctx context.Context, identifier, secret string) (user.Session, error) {
	session, err := a.provider.signIn(identifier, secret)
	if err != nil {
		a.provider.logger.WarnContext(ctx, "local admin sign-in rejected")
		return user.Session{}, err
	}
	a.holder.Set(session)
	return session, nil
}

func (a *Authenticator) SignOut(context.Context) error {
	a.holder.Clear()
	return nil
}

func (a *Authenticator) OnSessionChange(fn func(user.Session, bool)) func() {
	return a.holder.Subscribe(fn)
}
