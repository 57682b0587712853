package usecase

import (
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/standings"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
)

// ReadModel is everything shown for one tournament, rebuilt from the store on every load.
type ReadModel struct {
	Tournament tournament.Tournament
	Teams      []team.Team
	Players    []player.Player
	Matches    []match.Match
	Ranking    []standings.RankingEntry
	TopScorers []standings.TopScorer
}

func (m ReadModel) PlayersByTeam() map[string][]player.Player {
	out := make(map[string][]player.Player, len(m.Teams))
	for _, p := range m.Players {
		out[p.TeamID] = append(out[p.TeamID], p)
	}
	return out
}

func (m ReadModel) Team(teamID string) (team.Team, bool) {
	for _, t := range m.Teams {
		if t.ID == teamID {
			return t, true
		}
	}
	return team.Team{}, false
}

func (m ReadModel) Player(playerID string) (player.Player, bool) {
	for _, p := range m.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return player.Player{}, false
}

func (m ReadModel) clone() ReadModel {
	m.Teams = append([]team.Team(nil), m.Teams...)
	m.Players = append([]player.Player(nil), m.Players...)
	m.Matches = append([]match.Match(nil), m.Matches...)
	m.Ranking = append([]standings.RankingEntry(nil), m.Ranking...)
	m.TopScorers = append([]standings.TopScorer(nil), m.TopScorers...)
	return m
}
