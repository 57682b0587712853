package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/club-tournaments/internal/config"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/bolt"
	cacherepo "github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/club-tournaments/internal/platform/cache"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// openStore builds the configured backend, wrapped in the read-through cache when enabled.
// The returned close func releases the backend.
func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.Store, func() error, error) {
	var (
		store   usecase.Store
		closeFn = func() error { return nil }
	)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return usecase.Store{}, nil, err
		}
		if cfg.DBSeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db, memory.DefaultSeed()); err != nil {
				_ = db.Close()
				return usecase.Store{}, nil, err
			}
		}
		store = usecase.Store{
			Tournaments: postgres.NewTournamentRepository(db),
			Teams:       postgres.NewTeamRepository(db, id.NewXIDGenerator("team_")),
			Players:     postgres.NewPlayerRepository(db, id.NewXIDGenerator("player_")),
			Matches:     postgres.NewMatchRepository(db, id.NewXIDGenerator("match_")),
		}
		closeFn = db.Close
		logger.Info("store ready", "driver", cfg.StoreDriver, "db", redactDBURL(cfg.DBURL))

	case config.StoreBolt:
		db, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return usecase.Store{}, nil, err
		}
		if err := db.BootstrapSeed(memory.DefaultSeed()); err != nil {
			_ = db.Close()
			return usecase.Store{}, nil, fmt.Errorf("seed bolt store: %w", err)
		}
		store = usecase.Store{
			Tournaments: db.Tournaments(),
			Teams:       db.Teams(),
			Players:     db.Players(),
			Matches:     db.Matches(),
		}
		closeFn = db.Close
		logger.Info("store ready", "driver", cfg.StoreDriver, "path", cfg.BoltPath)

	default:
		db := memory.NewDatabase(memory.DefaultSeed(), memory.WithStrictForeignKeys(cfg.MemoryStrictForeignKeys))
		store = usecase.Store{
			Tournaments: db.Tournaments(),
			Teams:       db.Teams(),
			Players:     db.Players(),
			Matches:     db.Matches(),
		}
		logger.Info("store ready", "driver", config.StoreMemory, "strict_foreign_keys", cfg.MemoryStrictForeignKeys)
	}

	if cfg.CacheEnabled {
		store = withCache(store, cfg.CacheTTL)
	}
	return store, closeFn, nil
}

func withCache(store usecase.Store, ttl time.Duration) usecase.Store {
	shared := cache.NewStore(ttl)
	return usecase.Store{
		Tournaments: cacherepo.NewTournamentRepository(store.Tournaments, shared),
		Teams:       cacherepo.NewTeamRepository(store.Teams, shared),
		Players:     cacherepo.NewPlayerRepository(store.Players, shared),
		Matches:     cacherepo.NewMatchRepository(store.Matches, shared),
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgres.NormalizeDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
