package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/config"
	"github.com/riskibarqy/club-tournaments/internal/domain/standings"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/account/local"
	"github.com/riskibarqy/club-tournaments/internal/interfaces/httpapi"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/platform/ratelimit"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type authProvider interface {
	usecase.AuthProvider
	httpapi.TokenVerifier
}

// App owns the HTTP server and everything it needs to run.
type App struct {
	cfg         config.Config
	logger      *logging.Logger
	server      *http.Server
	sessions    *usecase.SessionRegistry
	tournaments *usecase.TournamentService
	closeStore  func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	auth, err := newAuthProvider(cfg, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	tournaments := usecase.NewTournamentService(store, logger,
		standings.WithTieBreak(cfg.StandingsTieBreak),
		standings.WithLocale(cfg.StandingsLocale),
	)
	registrations := usecase.NewRegistrationService(store, cfg.RegistrationSecret, logger)
	factory := usecase.NewWorkflowFactory(tournaments, registrations, store, auth, logger)
	sessions := usecase.NewSessionRegistry(factory, id.NewXIDGenerator("sess_"), cfg.WorkflowSessionTTL, logger)

	handler := httpapi.NewHandler(tournaments, registrations, sessions, logger)
	router := httpapi.NewRouter(handler, auth, logger, httpapi.RouterConfig{
		SwaggerEnabled:      cfg.SwaggerEnabled,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RegistrationLimiter: ratelimit.NewKeyed(cfg.RegistrationRateLimit, cfg.RegistrationRateBurst, cfg.RateLimiterIdleAfter),
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		sessions:    sessions,
		tournaments: tournaments,
		closeStore:  closeStore,
	}, nil
}

func newAuthProvider(cfg config.Config, logger *logging.Logger) (authProvider, error) {
	switch cfg.AuthProvider {
	case config.AuthAnubis:
		client := anubis.NewClient(nil, anubis.Config{
			BaseURL:            cfg.AnubisBaseURL,
			LoginPath:          cfg.AnubisLoginPath,
			LogoutPath:         cfg.AnubisLogoutPath,
			IntrospectPath:     cfg.AnubisIntrospectPath,
			AdminKey:           cfg.AnubisAdminKey,
			Timeout:            cfg.AnubisTimeout,
			CircuitBreaker:     cfg.AnubisCircuit,
			IntrospectCacheTTL: cfg.AnubisIntrospectCacheTTL,
		}, logger)
		logger.Info("auth provider ready", "provider", cfg.AuthProvider, "base_url", cfg.AnubisBaseURL)
		return anubis.NewProvider(client), nil
	default:
		provider, err := local.NewProvider(local.Config{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
			JWTSecret:    cfg.AdminJWTSecret,
			SessionTTL:   cfg.AdminSessionTTL,
			Issuer:       cfg.ServiceName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("local auth provider: %w", err)
		}
		logger.Info("auth provider ready", "provider", config.AuthLocal)
		return provider, nil
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and sweeps idle workflow sessions until ctx is cancelled, then
// shuts the server down and releases the store.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.closeStore(); err != nil {
			a.logger.Error("close store failed", "error", err)
		}
	}()

	if a.cfg.CacheEnabled {
		warmed, err := a.tournaments.WarmCache(ctx, a.cfg.CacheWarmWorkers)
		if err != nil {
			a.logger.WarnContext(ctx, "cache warmup incomplete", "loaded", warmed, "error", err)
		} else {
			a.logger.InfoContext(ctx, "cache warmed", "tournaments", warmed)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.sessions.Run(gctx, a.cfg.WorkflowSweepEvery)
		return nil
	})

	g.Go(func() error {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "store", a.cfg.StoreDriver, "auth", a.cfg.AuthProvider)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.sessions.CloseAll(shutdownCtx)
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		a.logger.Info("http server stopped")
		return nil
	})

	return g.Wait()
}
