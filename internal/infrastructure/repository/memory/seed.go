package memory

import (
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
)

const (
	TournamentID20260214 = "torneo-2026-02-14"
	TeamIDIUSLegends     = "team-1"
	TeamIDASDAurora      = "team-2"
)

// Seed is the initial content of a Database.
type Seed struct {
	Tournaments []tournament.Tournament
	Teams       []team.Team
	Players     []player.Player
	Matches     []match.Match
}

// DefaultSeed is the 14 February 2026 club tournament.
func DefaultSeed() Seed {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	playedAt := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

	return Seed{
		Tournaments: []tournament.Tournament{
			{ID: TournamentID20260214, Title: "Torneo 14/02/2026", Date: &date, Structure: "Grafico in arrivo"},
		},
		Teams: []team.Team{
			{ID: TeamIDIUSLegends, TournamentID: TournamentID20260214, Name: "IUS Legends"},
			{ID: TeamIDASDAurora, TournamentID: TournamentID20260214, Name: "ASD Aurora"},
		},
		Players: []player.Player{
			{ID: "p-1", TeamID: TeamIDIUSLegends, Name: "Mario Rossi", Goals: player.IntPtr(3)},
			{ID: "p-2", TeamID: TeamIDIUSLegends, Name: "Luca Bianchi", Goals: player.IntPtr(1)},
			{ID: "p-3", TeamID: TeamIDIUSLegends, Name: "Andrea Verdi", Goals: player.IntPtr(0)},
			{ID: "p-4", TeamID: TeamIDASDAurora, Name: "Marco Neri", Goals: player.IntPtr(2)},
			{ID: "p-5", TeamID: TeamIDASDAurora, Name: "Paolo Gallo", Goals: player.IntPtr(1)},
			{ID: "p-6", TeamID: TeamIDASDAurora, Name: "Davide Sala", Goals: player.IntPtr(0)},
		},
		Matches: []match.Match{
			{ID: "m-1", TournamentID: TournamentID20260214, HomeTeamID: TeamIDIUSLegends, AwayTeamID: TeamIDASDAurora, HomeGoals: 2, AwayGoals: 1, PlayedAt: &playedAt},
		},
	}
}
