package standings

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"golang.org/x/text/collate"
)

// ComputeRanking builds the league table for teams from matches.
// Matches naming a team outside teams are skipped. Inputs are not modified.
func ComputeRanking(teams []team.Team, matches []match.Match, opts ...Option) []RankingEntry {
	o := newOptions(opts)

	entries := make([]RankingEntry, 0, len(teams))
	index := make(map[string]int, len(teams))
	for _, t := range teams {
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = len(entries)
		entries = append(entries, RankingEntry{TeamID: t.ID, TeamName: t.Name})
	}

	for _, m := range matches {
		hi, okHome := index[m.HomeTeamID]
		ai, okAway := index[m.AwayTeamID]
		if !okHome || !okAway || hi == ai {
			continue
		}
		home, away := &entries[hi], &entries[ai]
		home.record(m.HomeGoals, m.AwayGoals)
		away.record(m.AwayGoals, m.HomeGoals)
	}

	collator := collate.New(o.locale, collate.Loose)
	slices.SortStableFunc(entries, func(a, b RankingEntry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if o.tieBreak == TieBreakFull {
			if c := cmp.Compare(b.GoalDifference, a.GoalDifference); c != 0 {
				return c
			}
			if c := cmp.Compare(b.GoalsFor, a.GoalsFor); c != 0 {
				return c
			}
		}
		if c := collator.CompareString(a.TeamName, b.TeamName); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

func (e *RankingEntry) record(scored, conceded int) {
	e.Played++
	e.GoalsFor += scored
	e.GoalsAgainst += conceded
	e.GoalDifference = e.GoalsFor - e.GoalsAgainst

	switch {
	case scored > conceded:
		e.Won++
		e.Points += PointsWin
	case scored == conceded:
		e.Draw++
		e.Points += PointsDraw
	default:
		e.Lost++
		e.Points += PointsLoss
	}
}

// ComputeTopScorers lists players of teams ordered by goals, then name.
// Players whose team is not in teams are left out.
func ComputeTopScorers(teams []team.Team, players []player.Player, opts ...Option) []TopScorer {
	o := newOptions(opts)

	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	out := make([]TopScorer, 0, len(players))
	for _, p := range players {
		teamName, ok := names[p.TeamID]
		if !ok {
			continue
		}
		out = append(out, TopScorer{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			TeamID:     p.TeamID,
			TeamName:   teamName,
			Goals:      p.DisplayGoals(),
		})
	}

	collator := collate.New(o.locale, collate.Loose)
	slices.SortStableFunc(out, func(a, b TopScorer) int {
		if c := cmp.Compare(b.Goals, a.Goals); c != 0 {
			return c
		}
		if c := collator.CompareString(a.PlayerName, b.PlayerName); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}
