package player

import (
	"reflect"
	"testing"
)

func TestPlayer_DisplayGoals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		goals *int
		want  int
	}{
		{name: "absent", goals: nil, want: 0},
		{name: "negative legacy value", goals: IntPtr(-4), want: 0},
		{name: "zero", goals: IntPtr(0), want: 0},
		{name: "positive", goals: IntPtr(3), want: 3},
	}
	for _, tc := range cases {
		p := Player{Goals: tc.goals}
		if got := p.DisplayGoals(); got != tc.want {
			t.Fatalf("%s: DisplayGoals()=%d want %d", tc.name, got, tc.want)
		}
	}
}

func TestPlayer_Validate(t *testing.T) {
	t.Parallel()

	if err := (Player{TeamID: "team-1", Name: "Mario", Goals: IntPtr(-1)}).Validate(); err == nil {
		t.Fatalf("expected negative goals to be rejected")
	}
	if err := (Player{TeamID: "team-1", Name: "  "}).Validate(); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
	if err := (Player{TeamID: "team-1", Name: "Mario"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCleanNames(t *testing.T) {
	t.Parallel()

	got := CleanNames([]string{" Mario Rossi ", "", "   ", "Luca"})
	want := []string{"Mario Rossi", "Luca"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CleanNames()=%v want %v", got, want)
	}
}
