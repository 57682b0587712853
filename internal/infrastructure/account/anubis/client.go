package anubis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/platform/cache"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/platform/resilience"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

var (
	errAnubisTransient = crerr.New("anubis transient failure")

	ErrInvalidCredentials = crerr.New("invalid login credentials")
	ErrInactiveToken      = crerr.New("inactive token")
)

const (
	maxResponseBytes = 1 << 20

	msgInvalidCredentials = "Invalid login credentials"
)

type Config struct {
	BaseURL        string
	LoginPath      string
	LogoutPath     string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CircuitBreaker resilience.Config

	// IntrospectCacheTTL caches active introspection results per token hash; zero disables it.
	IntrospectCacheTTL time.Duration
}

// Client talks to the Anubis account service.
type Client struct {
	httpClient    *http.Client
	loginURL      string
	logoutURL     string
	introspectURL string
	adminKey      string
	breaker       *resilience.Breaker
	introspected  *cache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:    httpClient,
		loginURL:      buildURL(cfg.BaseURL, defaultPath(cfg.LoginPath, "/v1/auth/login")),
		logoutURL:     buildURL(cfg.BaseURL, defaultPath(cfg.LogoutPath, "/v1/auth/logout")),
		introspectURL: buildURL(cfg.BaseURL, defaultPath(cfg.IntrospectPath, "/v1/auth/introspect")),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		breaker:       newBreaker(cfg.CircuitBreaker, logger),
		introspected:  newIntrospectionCache(cfg.IntrospectCacheTTL),
		logger:        logger,
	}
}

func newBreaker(cfg resilience.Config, logger *logging.Logger) *resilience.Breaker {
	if cfg.Name == "" {
		cfg.Name = "anubis"
	}
	return resilience.New(cfg, resilience.WithStateListener(func(name string, from, to resilience.State) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	}))
}

func newIntrospectionCache(ttl time.Duration) *cache.Store {
	if ttl <= 0 {
		return nil
	}
	return cache.NewStore(ttl)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (user.Session, error) {
	var decoded loginResponse
	status, err := c.post(ctx, c.loginURL, "", loginRequest{Email: email, Password: password}, &decoded)
	if err != nil {
		return user.Session{}, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest {
		if msg := decoded.message(); msg != "" {
			return user.Session{}, crerr.New(msg)
		}
		return user.Session{}, &usecase.Error{Kind: usecase.ErrUnauthorized, Message: msgInvalidCredentials, Err: ErrInvalidCredentials}
	}
	if status != http.StatusOK {
		return user.Session{}, crerr.Newf("anubis login failed with status %d", status)
	}
	if strings.TrimSpace(decoded.AccessToken) == "" {
		return user.Session{}, crerr.New("invalid login response: access_token is empty")
	}

	session := user.Session{
		UserID:      decoded.User.ID,
		Email:       decoded.User.Email,
		AccessToken: decoded.AccessToken,
	}
	if session.Email == "" {
		session.Email = strings.TrimSpace(email)
	}
	if decoded.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	}
	return session, nil
}

// Logout revokes the access token. An already revoked token is not an error.
func (c *Client) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	var decoded errorResponse
	status, err := c.post(ctx, c.logoutURL, token, struct{}{}, &decoded)
	if err != nil {
		return err
	}
	switch {
	case status/100 == 2, status == http.StatusUnauthorized:
		return nil
	default:
		if msg := decoded.message(); msg != "" {
			return crerr.New(msg)
		}
		return crerr.Newf("anubis logout failed with status %d", status)
	}
}

// VerifyAccessToken introspects a token and returns the session it belongs to.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Session{}, crerr.Wrap(ErrInactiveToken, "token is required")
	}

	key := hashToken(token)
	if c.introspected != nil {
		if cached, ok := c.introspected.Get(ctx, key); ok {
			if session, ok := cached.(user.Session); ok && !session.Expired(time.Now()) {
				return session, nil
			}
		}
	}

	var decoded introspectResponse
	status, err := c.post(ctx, c.introspectURL, "", introspectRequest{Token: token}, &decoded)
	if err != nil {
		return user.Session{}, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return user.Session{}, crerr.Wrap(ErrInactiveToken, "introspection denied")
	}
	if status != http.StatusOK {
		return user.Session{}, crerr.Newf("anubis introspection failed with status %d", status)
	}
	if !decoded.Active {
		return user.Session{}, ErrInactiveToken
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Session{}, crerr.New("invalid introspect response: user_id is empty")
	}

	session := user.Session{
		UserID:      decoded.UserID,
		Email:       decoded.Email,
		AccessToken: token,
	}
	if decoded.Exp > 0 {
		session.ExpiresAt = time.Unix(decoded.Exp, 0).UTC()
	}
	if c.introspected != nil {
		c.introspected.Set(ctx, key, session)
	}
	return session, nil
}

// post sends payload as JSON and decodes the response into out. Transport failures and
// 5xx/429 statuses count against the circuit breaker.
func (c *Client) post(ctx context.Context, url, bearer string, payload, out any) (int, error) {
	var status int
	err := c.breaker.Do(func() error {
		var err error
		status, err = c.do(ctx, url, bearer, payload, out)
		return err
	}, isCircuitFailure)
	if err != nil {
		if crerr.Is(err, resilience.ErrOpen) {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
			return 0, crerr.Wrap(err, "account service is temporarily unavailable")
		}
		return 0, err
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, url, bearer string, payload, out any) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return 0, crerr.Wrap(err, "marshal anubis request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(buf.String()))
	if err != nil {
		return 0, crerr.Wrap(err, "create anubis request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, crerr.Mark(crerr.Wrap(err, "request anubis"), errAnubisTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, crerr.Mark(crerr.Wrap(err, "read anubis response"), errAnubisTransient)
	}

	if isRetryableStatus(resp.StatusCode) {
		c.logger.WarnContext(ctx, "anubis returned retryable status", "status_code", resp.StatusCode, "url", url)
		return resp.StatusCode, crerr.Mark(
			fmt.Errorf("anubis status=%d body=%s", resp.StatusCode, truncate(string(body), 256)),
			errAnubisTransient,
		)
	}

	if len(strings.TrimSpace(string(body))) > 0 && out != nil {
		if err := sonic.Unmarshal(body, out); err != nil {
			if resp.StatusCode/100 == 2 {
				return resp.StatusCode, crerr.Wrap(err, "unmarshal anubis response")
			}
			c.logger.DebugContext(ctx, "anubis error body is not json", "status_code", resp.StatusCode)
		}
	}
	return resp.StatusCode, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	errorResponse
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r errorResponse) message() string {
	if r.Error != nil && strings.TrimSpace(r.Error.Message) != "" {
		return strings.TrimSpace(r.Error.Message)
	}
	return strings.TrimSpace(r.Message)
}
