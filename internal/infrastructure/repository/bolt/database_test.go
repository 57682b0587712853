package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func openSeeded(t *testing.T) *Database {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "tournaments.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, db.BootstrapSeed(memory.DefaultSeed()))
	return db
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	require.Error(t, err)
}

func TestBootstrapSeed_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSeeded(t)
	_, _, err := db.Tournaments().UpdateStructure(ctx, memory.TournamentID20260214, "Girone unico")
	require.NoError(t, err)

	require.NoError(t, db.BootstrapSeed(memory.DefaultSeed()))

	got, ok, err := db.Tournaments().GetByID(ctx, memory.TournamentID20260214)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Girone unico", got.Structure)
}

func TestTournamentRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "list.db"))
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	seed := memory.Seed{}
	seed.Tournaments = append(seed.Tournaments,
		tournamentFromRecord(tournamentRecord{ID: "undated", Title: "Senza data"}),
		tournamentFromRecord(tournamentRecord{ID: "older", Date: &older}),
		tournamentFromRecord(tournamentRecord{ID: "newer", Date: &newer}),
	)
	require.NoError(t, db.BootstrapSeed(seed))

	list, err := db.Tournaments().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"newer", "older", "undated"}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, ok, err := db.Tournaments().UpdateStructure(ctx, "missing", "x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTeamRepository_CreateAndDeleteCascadesPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSeeded(t)

	created, err := db.Teams().Create(ctx, team.Team{TournamentID: memory.TournamentID20260214, Name: "  Boca Seniors "})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Boca Seniors", created.Name)

	_, err = db.Teams().Create(ctx, team.Team{TournamentID: "missing", Name: "Ghost"})
	require.Error(t, err)

	players, err := db.Players().CreateBatch(ctx, created.ID, []string{" Gino ", "", "Alfa"})
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, 0, *players[0].Goals)

	listed, err := db.Players().ListByTeams(ctx, []string{created.ID})
	require.NoError(t, err)
	require.Equal(t, "Alfa", listed[0].Name)
	require.Equal(t, "Gino", listed[1].Name)

	teams, err := db.Teams().ListByTournament(ctx, memory.TournamentID20260214)
	require.NoError(t, err)
	require.Equal(t, []string{"ASD Aurora", "Boca Seniors", "IUS Legends"}, []string{teams[0].Name, teams[1].Name, teams[2].Name})

	ok, err := db.Teams().Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	listed, err = db.Players().ListByTeams(ctx, []string{created.ID})
	require.NoError(t, err)
	require.Empty(t, listed)

	ok, err = db.Teams().Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPlayerRepository_Updates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSeeded(t)

	renamed, ok, err := db.Players().UpdateName(ctx, "p-3", "Andrea Verdini")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Andrea Verdini", renamed.Name)

	scored, ok, err := db.Players().UpdateGoals(ctx, "p-3", 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, *scored.Goals)

	_, ok, err = db.Players().UpdateGoals(ctx, "missing", 1)
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = db.Players().UpdateGoals(ctx, "p-3", -1)
	require.Error(t, err)

	ok, err = db.Players().Delete(ctx, "p-3")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = db.Players().Delete(ctx, "p-3")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Players().DeleteByTeam(ctx, memory.TeamIDIUSLegends))
	left, err := db.Players().ListByTeams(ctx, []string{memory.TeamIDIUSLegends, memory.TeamIDASDAurora})
	require.NoError(t, err)
	require.Len(t, left, 3)
	for _, p := range left {
		require.Equal(t, memory.TeamIDASDAurora, p.TeamID)
	}
}

func TestMatchRepository_CreateAndDeleteByTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSeeded(t)

	playedAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	created, err := db.Matches().Create(ctx, match.Match{
		TournamentID: memory.TournamentID20260214,
		HomeTeamID:   memory.TeamIDASDAurora,
		AwayTeamID:   memory.TeamIDIUSLegends,
		HomeGoals:    1,
		AwayGoals:    1,
		PlayedAt:     &playedAt,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = db.Matches().Create(ctx, match.Match{
		TournamentID: memory.TournamentID20260214,
		HomeTeamID:   memory.TeamIDASDAurora,
		AwayTeamID:   memory.TeamIDASDAurora,
	})
	require.Error(t, err)

	matches, err := db.Matches().ListByTournament(ctx, memory.TournamentID20260214)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, created.ID, matches[0].ID)

	require.NoError(t, db.Matches().DeleteByTeam(ctx, memory.TeamIDIUSLegends))
	matches, err = db.Matches().ListByTournament(ctx, memory.TournamentID20260214)
	require.NoError(t, err)
	require.Empty(t, matches)
}
