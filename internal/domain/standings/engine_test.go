package standings

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"golang.org/x/text/language"
)

func teamsABC() []team.Team {
	return []team.Team{
		{ID: "c", TournamentID: "t1", Name: "Charlie"},
		{ID: "a", TournamentID: "t1", Name: "Alpha"},
		{ID: "b", TournamentID: "t1", Name: "Bravo"},
	}
}

func result(home, away string, hg, ag int) match.Match {
	return match.Match{TournamentID: "t1", HomeTeamID: home, AwayTeamID: away, HomeGoals: hg, AwayGoals: ag}
}

func order(entries []RankingEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.TeamID)
	}
	return out
}

func TestComputeRanking_NoMatchesOrdersByName(t *testing.T) {
	t.Parallel()

	got := ComputeRanking(teamsABC(), nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order(got), want) {
		t.Fatalf("order=%v want %v", order(got), want)
	}
	for i, e := range got {
		if e.Points != 0 || e.Played != 0 || e.GoalsFor != 0 || e.GoalsAgainst != 0 || e.GoalDifference != 0 {
			t.Fatalf("expected zero stats, got %+v", e)
		}
		if e.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, e.Position)
		}
	}
}

func TestComputeRanking_HomeWin(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}}
	got := ComputeRanking(teams, []match.Match{result("a", "b", 2, 1)})

	if want := []string{"a", "b"}; !reflect.DeepEqual(order(got), want) {
		t.Fatalf("order=%v want %v", order(got), want)
	}
	a, b := got[0], got[1]
	if a.Points != 3 || a.Played != 1 || a.GoalDifference != 1 || a.Won != 1 {
		t.Fatalf("unexpected winner entry: %+v", a)
	}
	if b.Points != 0 || b.Played != 1 || b.GoalDifference != -1 || b.Lost != 1 {
		t.Fatalf("unexpected loser entry: %+v", b)
	}
}

func TestComputeRanking_DrawBreaksTieByName(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}}
	for _, mode := range []TieBreak{TieBreakFull, TieBreakSimple} {
		got := ComputeRanking(teams, []match.Match{result("b", "a", 1, 1)}, WithTieBreak(mode))
		if want := []string{"a", "b"}; !reflect.DeepEqual(order(got), want) {
			t.Fatalf("%s: order=%v want %v", mode, order(got), want)
		}
		for _, e := range got {
			if e.Points != 1 || e.Played != 1 || e.GoalDifference != 0 || e.Draw != 1 {
				t.Fatalf("%s: unexpected draw entry: %+v", mode, e)
			}
		}
	}
}

func TestComputeRanking_TieBreakModesDiffer(t *testing.T) {
	t.Parallel()

	// Alpha and Bravo both on 3 points; Bravo has the better goal difference.
	teams := teamsABC()
	matches := []match.Match{
		result("a", "c", 1, 0),
		result("b", "c", 5, 0),
	}

	full := ComputeRanking(teams, matches, WithTieBreak(TieBreakFull))
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(order(full), want) {
		t.Fatalf("full order=%v want %v", order(full), want)
	}

	simple := ComputeRanking(teams, matches, WithTieBreak(TieBreakSimple))
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order(simple), want) {
		t.Fatalf("simple order=%v want %v", order(simple), want)
	}
}

func TestComputeRanking_GoalsForBreaksEqualDifference(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}, {ID: "d", Name: "D"}}
	matches := []match.Match{
		result("a", "c", 1, 0),
		result("b", "d", 3, 2),
	}
	got := ComputeRanking(teams, matches)
	if got[0].TeamID != "b" || got[1].TeamID != "a" {
		t.Fatalf("expected goals-for to rank b above a, got %v", order(got))
	}
}

func TestComputeRanking_LocaleAwareNames(t *testing.T) {
	t.Parallel()

	teams := []team.Team{
		{ID: "1", Name: "zeta"},
		{ID: "2", Name: "Ávila"},
		{ID: "3", Name: "atletico"},
		{ID: "4", Name: "Bari"},
	}
	got := ComputeRanking(teams, nil, WithLocale(language.Italian))
	if want := []string{"3", "2", "4", "1"}; !reflect.DeepEqual(order(got), want) {
		t.Fatalf("order=%v want %v", order(got), want)
	}
}

func TestComputeRanking_SameNameFallsBackToID(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "z", Name: "Aurora"}, {ID: "m", Name: "aurora"}}
	got := ComputeRanking(teams, nil)
	if want := []string{"m", "z"}; !reflect.DeepEqual(order(got), want) {
		t.Fatalf("order=%v want %v", order(got), want)
	}
}

func TestComputeRanking_SkipsUnknownTeams(t *testing.T) {
	t.Parallel()

	teams := teamsABC()
	base := []match.Match{result("a", "b", 2, 2), result("c", "a", 0, 1)}
	withGhosts := append([]match.Match{
		result("a", "ghost", 9, 0),
		result("ghost", "b", 4, 4),
		result("x", "y", 1, 0),
	}, base...)

	if !reflect.DeepEqual(ComputeRanking(teams, base), ComputeRanking(teams, withGhosts)) {
		t.Fatalf("unresolvable matches changed the ranking")
	}
}

func TestComputeRanking_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	teams := teamsABC()
	matches := []match.Match{result("a", "b", 1, 0)}
	teamsCopy := append([]team.Team(nil), teams...)
	matchesCopy := append([]match.Match(nil), matches...)

	_ = ComputeRanking(teams, matches)

	if !reflect.DeepEqual(teams, teamsCopy) || !reflect.DeepEqual(matches, matchesCopy) {
		t.Fatalf("inputs were mutated")
	}
}

func TestComputeRanking_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(2026, 214))
	for iter := 0; iter < 200; iter++ {
		teamCount := rng.IntN(7)
		teams := make([]team.Team, 0, teamCount)
		for i := 0; i < teamCount; i++ {
			teams = append(teams, team.Team{ID: fmt.Sprintf("t%d", i), Name: fmt.Sprintf("Team %c", 'A'+rng.IntN(26))})
		}

		matchCount := rng.IntN(15)
		matches := make([]match.Match, 0, matchCount)
		resolved, draws := 0, 0
		for i := 0; i < matchCount; i++ {
			home := fmt.Sprintf("t%d", rng.IntN(teamCount+2))
			away := fmt.Sprintf("t%d", rng.IntN(teamCount+2))
			m := result(home, away, rng.IntN(5), rng.IntN(5))
			matches = append(matches, m)
			if home != away && isKnown(teams, home) && isKnown(teams, away) {
				resolved++
				if m.HomeGoals == m.AwayGoals {
					draws++
				}
			}
		}

		got := ComputeRanking(teams, matches)
		if len(got) != len(teams) {
			t.Fatalf("iter %d: expected %d entries, got %d", iter, len(teams), len(got))
		}

		points, played := 0, 0
		for _, e := range got {
			points += e.Points
			played += e.Played
			if e.GoalDifference != e.GoalsFor-e.GoalsAgainst {
				t.Fatalf("iter %d: inconsistent goal difference %+v", iter, e)
			}
			if e.Won+e.Draw+e.Lost != e.Played {
				t.Fatalf("iter %d: inconsistent results %+v", iter, e)
			}
		}
		if want := 3*(resolved-draws) + 2*draws; points != want {
			t.Fatalf("iter %d: total points %d want %d", iter, points, want)
		}
		if played != 2*resolved {
			t.Fatalf("iter %d: total played %d want %d", iter, played, 2*resolved)
		}

		if !reflect.DeepEqual(got, ComputeRanking(teams, matches)) {
			t.Fatalf("iter %d: ranking is not deterministic", iter)
		}
	}
}

func isKnown(teams []team.Team, id string) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}

func TestComputeTopScorers(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "team-1", Name: "IUS Legends"}, {ID: "team-2", Name: "ASD Aurora"}}
	players := []player.Player{
		{ID: "p1", TeamID: "team-1", Name: "Mario Rossi", Goals: player.IntPtr(3)},
		{ID: "p2", TeamID: "team-1", Name: "Luca Bianchi", Goals: player.IntPtr(1)},
		{ID: "p3", TeamID: "team-1", Name: "Andrea Verdi", Goals: player.IntPtr(0)},
		{ID: "p4", TeamID: "team-2", Name: "Marco Neri", Goals: player.IntPtr(2)},
		{ID: "p5", TeamID: "team-2", Name: "paolo Gallo", Goals: player.IntPtr(1)},
		{ID: "p6", TeamID: "team-2", Name: "Davide Sala", Goals: nil},
		{ID: "p7", TeamID: "team-2", Name: "Èrica Blu", Goals: player.IntPtr(-2)},
		{ID: "p8", TeamID: "gone", Name: "Orphan", Goals: player.IntPtr(10)},
	}

	got := ComputeTopScorers(teams, players)

	wantIDs := []string{"p1", "p4", "p2", "p5", "p3", "p6", "p7"}
	gotIDs := make([]string, 0, len(got))
	for _, s := range got {
		gotIDs = append(gotIDs, s.PlayerID)
		if s.Goals < 0 {
			t.Fatalf("display goals must be clamped, got %+v", s)
		}
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("order=%v want %v", gotIDs, wantIDs)
	}
	if got[0].TeamName != "IUS Legends" || got[1].TeamName != "ASD Aurora" {
		t.Fatalf("unexpected team names: %+v", got[:2])
	}
	if got[6].Goals != 0 {
		t.Fatalf("negative legacy goals should display as 0, got %d", got[6].Goals)
	}
	if players[6].Goals == nil || *players[6].Goals != -2 {
		t.Fatalf("stored goals must not be modified")
	}
}

func TestParseTieBreak(t *testing.T) {
	t.Parallel()

	cases := map[string]TieBreak{"": TieBreakFull, "FULL": TieBreakFull, " simple ": TieBreakSimple}
	for in, want := range cases {
		got, err := ParseTieBreak(in)
		if err != nil || got != want {
			t.Fatalf("ParseTieBreak(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseTieBreak("head-to-head"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseLocale(t *testing.T) {
	t.Parallel()

	tag, err := ParseLocale("")
	if err != nil || tag != language.Italian {
		t.Fatalf("expected italian default, got %v %v", tag, err)
	}
	if _, err := ParseLocale("not a locale!"); err == nil {
		t.Fatalf("expected parse error")
	}
}
