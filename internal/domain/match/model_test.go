package match

import "testing"

func TestMatch_Validate(t *testing.T) {
	t.Parallel()

	valid := Match{TournamentID: "t1", HomeTeamID: "a", AwayTeamID: "b", HomeGoals: 2, AwayGoals: 1}
	cases := []struct {
		name    string
		mutate  func(m *Match)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Match) {}},
		{name: "same team", mutate: func(m *Match) { m.AwayTeamID = m.HomeTeamID }, wantErr: true},
		{name: "missing home", mutate: func(m *Match) { m.HomeTeamID = "" }, wantErr: true},
		{name: "missing tournament", mutate: func(m *Match) { m.TournamentID = " " }, wantErr: true},
		{name: "negative away goals", mutate: func(m *Match) { m.AwayGoals = -1 }, wantErr: true},
	}

	for _, tc := range cases {
		m := valid
		tc.mutate(&m)
		err := m.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: Validate() err=%v wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestMatch_Involves(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamID: "a", AwayTeamID: "b"}
	if !m.Involves("a") || !m.Involves("b") || m.Involves("c") {
		t.Fatalf("unexpected Involves results")
	}
}
