package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/standings"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/club-tournaments/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/club-tournaments/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/club-tournaments/internal/mocks/domain/team"
	tournamentmock "github.com/riskibarqy/club-tournaments/internal/mocks/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestTournamentService_LoadTournamentBuildsReadModel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	item := tournament.Tournament{ID: "t-1", Title: "Coppa", Date: &date}

	tournaments := tournamentmock.NewRepository(t)
	teams := teammock.NewRepository(t)
	players := playermock.NewRepository(t)
	matches := matchmock.NewRepository(t)

	tournaments.On("GetByID", mock.Anything, "t-1").Return(item, true, nil).Once()
	teams.On("ListByTournament", mock.Anything, "t-1").Return([]team.Team{
		{ID: "a", TournamentID: "t-1", Name: "Alfa"},
		{ID: "b", TournamentID: "t-1", Name: "Beta"},
	}, nil).Once()
	matches.On("ListByTournament", mock.Anything, "t-1").Return([]match.Match{
		{ID: "m-1", TournamentID: "t-1", HomeTeamID: "a", AwayTeamID: "b", HomeGoals: 0, AwayGoals: 2},
		{ID: "m-2", TournamentID: "t-1", HomeTeamID: "a", AwayTeamID: "ghost", HomeGoals: 9, AwayGoals: 0},
	}, nil).Once()
	players.On("ListByTeams", mock.Anything, []string{"a", "b"}).Return([]player.Player{
		{ID: "p-1", TeamID: "a", Name: "Uno", Goals: player.IntPtr(-2)},
		{ID: "p-2", TeamID: "b", Name: "Due", Goals: player.IntPtr(2)},
		{ID: "p-3", TeamID: "b", Name: "Tre"},
	}, nil).Once()

	svc := NewTournamentService(Store{
		Tournaments: tournaments,
		Teams:       teams,
		Players:     players,
		Matches:     matches,
	}, logging.NewNop())

	model, err := svc.LoadTournament(ctx, "t-1")
	if err != nil {
		t.Fatalf("LoadTournament returned error: %v", err)
	}
	if model.Tournament.ID != "t-1" || len(model.Teams) != 2 || len(model.Players) != 3 {
		t.Fatalf("unexpected read model: %+v", model)
	}
	if model.Ranking[0].TeamID != "b" || model.Ranking[0].Points != standings.PointsWin {
		t.Fatalf("expected Beta first with a win, got %+v", model.Ranking[0])
	}
	if model.Ranking[1].Played != 1 {
		t.Fatalf("match against an unknown team must be skipped, got %+v", model.Ranking[1])
	}
	if model.TopScorers[0].PlayerID != "p-2" {
		t.Fatalf("unexpected top scorer: %+v", model.TopScorers[0])
	}
	for _, s := range model.TopScorers {
		if s.Goals < 0 {
			t.Fatalf("goals must be clamped for display: %+v", s)
		}
	}
}

func TestTournamentService_LoadTournamentSkipsPlayersWithoutTeams(t *testing.T) {
	t.Parallel()

	tournaments := tournamentmock.NewRepository(t)
	teams := teammock.NewRepository(t)
	players := playermock.NewRepository(t)
	matches := matchmock.NewRepository(t)

	tournaments.On("GetByID", mock.Anything, "t-1").Return(tournament.Tournament{ID: "t-1"}, true, nil).Once()
	teams.On("ListByTournament", mock.Anything, "t-1").Return([]team.Team{}, nil).Once()
	matches.On("ListByTournament", mock.Anything, "t-1").Return([]match.Match{}, nil).Once()

	svc := NewTournamentService(Store{Tournaments: tournaments, Teams: teams, Players: players, Matches: matches}, nil)
	model, err := svc.LoadTournament(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("LoadTournament returned error: %v", err)
	}
	if len(model.Ranking) != 0 || len(model.TopScorers) != 0 {
		t.Fatalf("expected empty standings, got %+v", model)
	}
	players.AssertNotCalled(t, "ListByTeams", mock.Anything, mock.Anything)
}

func TestTournamentService_LoadTournamentNotFound(t *testing.T) {
	t.Parallel()

	tournaments := tournamentmock.NewRepository(t)
	tournaments.On("GetByID", mock.Anything, "missing").Return(tournament.Tournament{}, false, nil).Once()

	svc := NewTournamentService(Store{Tournaments: tournaments}, nil)
	_, err := svc.LoadTournament(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if Message(err) != msgTournamentAbsent {
		t.Fatalf("unexpected message %q", Message(err))
	}
}

func TestTournamentService_LoadTournamentStoreFailure(t *testing.T) {
	t.Parallel()

	tournaments := tournamentmock.NewRepository(t)
	teams := teammock.NewRepository(t)
	matches := matchmock.NewRepository(t)

	tournaments.On("GetByID", mock.Anything, "t-1").Return(tournament.Tournament{ID: "t-1"}, true, nil).Once()
	teams.On("ListByTournament", mock.Anything, "t-1").Return(nil, errors.New("connection refused")).Once()
	matches.On("ListByTournament", mock.Anything, "t-1").Return([]match.Match{}, nil).Maybe()

	svc := NewTournamentService(Store{Tournaments: tournaments, Teams: teams, Matches: matches}, nil)
	_, err := svc.LoadTournament(context.Background(), "t-1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if Message(err) != "connection refused" {
		t.Fatalf("store message must be surfaced verbatim, got %q", Message(err))
	}
}

func TestTournamentService_GetTournamentRequiresID(t *testing.T) {
	t.Parallel()

	svc := NewTournamentService(Store{}, nil)
	if _, err := svc.GetTournament(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTournamentService_SimpleTieBreak(t *testing.T) {
	t.Parallel()

	seed := memory.DefaultSeed()
	seed.Matches = nil
	store := memoryStore(memory.NewDatabase(seed))

	svc := NewTournamentService(store, nil, standings.WithTieBreak(standings.TieBreakSimple))
	model, err := svc.LoadTournament(context.Background(), memory.TournamentID20260214)
	if err != nil {
		t.Fatalf("LoadTournament returned error: %v", err)
	}
	if model.Ranking[0].TeamName != "ASD Aurora" {
		t.Fatalf("expected name order on equal points, got %+v", model.Ranking)
	}
}

func TestTournamentService_WarmCache(t *testing.T) {
	t.Parallel()

	svc := NewTournamentService(memoryStore(memory.NewDatabase(memory.DefaultSeed())), nil)
	loaded, err := svc.WarmCache(context.Background(), 2)
	if err != nil {
		t.Fatalf("WarmCache returned error: %v", err)
	}
	if loaded != 1 {
		t.Fatalf("expected 1 tournament loaded, got %d", loaded)
	}
}

func TestTournamentService_WarmCacheJoinsErrors(t *testing.T) {
	t.Parallel()

	tournaments := tournamentmock.NewRepository(t)
	tournaments.On("List", mock.Anything).Return([]tournament.Tournament{{ID: "t-1"}, {ID: "t-2"}}, nil).Once()
	tournaments.On("GetByID", mock.Anything, mock.Anything).Return(tournament.Tournament{}, false, errors.New("timeout")).Twice()

	svc := NewTournamentService(Store{Tournaments: tournaments}, nil)
	loaded, err := svc.WarmCache(context.Background(), 0)
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if loaded != 0 {
		t.Fatalf("expected nothing loaded, got %d", loaded)
	}
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected wrapped ErrDependencyUnavailable, got %v", err)
	}
}
