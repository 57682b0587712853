package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/standings"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultWarmWorkers = 4

type TournamentService struct {
	store         Store
	standingsOpts []standings.Option
	logger        *logging.Logger
}

func NewTournamentService(store Store, logger *logging.Logger, standingsOpts ...standings.Option) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TournamentService{
		store:         store,
		standingsOpts: standingsOpts,
		logger:        logger,
	}
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListTournaments")
	defer span.End()

	items, err := s.store.Tournaments.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, validationError("tournament_id", "tournament id is required")
	}

	item, exists, err := s.store.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, storeError(err)
	}
	if !exists {
		return tournament.Tournament{}, &Error{Kind: ErrNotFound, Message: msgTournamentAbsent, Err: fmt.Errorf("tournament=%s", tournamentID)}
	}
	return item, nil
}

// LoadTournament reads teams, players and matches and derives ranking and top scorers.
func (s *TournamentService) LoadTournament(ctx context.Context, tournamentID string) (ReadModel, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.LoadTournament", attribute.String("tournament.id", tournamentID))
	defer span.End()

	item, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return ReadModel{}, err
	}

	var (
		teams   []team.Team
		matches []match.Match
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		out, err := s.store.Teams.ListByTournament(ctx, item.ID)
		if err != nil {
			return err
		}
		teams = out
		return nil
	})
	p.Go(func(ctx context.Context) error {
		out, err := s.store.Matches.ListByTournament(ctx, item.ID)
		if err != nil {
			return err
		}
		matches = out
		return nil
	})
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		return ReadModel{}, storeError(err)
	}

	var players []player.Player
	if len(teams) > 0 {
		players, err = s.store.Players.ListByTeams(ctx, team.IDs(teams))
		if err != nil {
			span.RecordError(err)
			return ReadModel{}, storeError(err)
		}
	}

	return ReadModel{
		Tournament: item,
		Teams:      teams,
		Players:    players,
		Matches:    matches,
		Ranking:    standings.ComputeRanking(teams, matches, s.standingsOpts...),
		TopScorers: standings.ComputeTopScorers(teams, players, s.standingsOpts...),
	}, nil
}

// WarmCache loads every tournament once so a caching store starts hot.
func (s *TournamentService) WarmCache(ctx context.Context, workers int) (int, error) {
	items, err := s.ListTournaments(ctx)
	if err != nil {
		return 0, err
	}
	if workers < 1 {
		workers = defaultWarmWorkers
	}

	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		loaded int
		errs   []error
	)
	for _, item := range items {
		tournamentID := item.ID
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()
			_, loadErr := s.LoadTournament(ctx, tournamentID)

			mu.Lock()
			defer mu.Unlock()
			if loadErr != nil {
				errs = append(errs, fmt.Errorf("tournament=%s: %w", tournamentID, loadErr))
				return
			}
			loaded++
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit task to worker pool: %w", err))
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		s.logger.WarnContext(ctx, "cache warmup finished with errors", "loaded", loaded, "failed", len(errs))
		return loaded, errors.Join(errs...)
	}
	s.logger.InfoContext(ctx, "cache warmup finished", "loaded", loaded)
	return loaded, nil
}
