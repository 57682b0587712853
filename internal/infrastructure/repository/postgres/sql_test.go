package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get tournament: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("pq: relation tournaments does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestConstraintError(t *testing.T) {
	t.Run("foreign key violation names the constraint", func(t *testing.T) {
		driverErr := &pq.Error{Code: pqForeignKeyViolation, Constraint: "matches_home_team_fk", Message: "update or delete on table teams"}
		err := constraintError("delete team", driverErr)
		if !isForeignKeyViolation(err) {
			t.Fatalf("expected wrapped error to keep the pq code")
		}
		if !strings.Contains(err.Error(), `violates constraint "matches_home_team_fk"`) {
			t.Fatalf("unexpected message: %s", err)
		}
	})

	t.Run("check violation", func(t *testing.T) {
		err := constraintError("create match", &pq.Error{Code: pqCheckViolation, Constraint: "matches_distinct_teams"})
		if !strings.HasPrefix(err.Error(), `create match: violates constraint "matches_distinct_teams"`) {
			t.Fatalf("unexpected message: %s", err)
		}
	})

	t.Run("other errors are wrapped as is", func(t *testing.T) {
		base := errors.New("connection refused")
		err := constraintError("create team", base)
		if !errors.Is(err, base) || err.Error() != "create team: connection refused" {
			t.Fatalf("unexpected error: %v", err)
		}
		if isForeignKeyViolation(err) {
			t.Fatalf("plain error must not be a foreign key violation")
		}
	})
}

func TestRowsAffected(t *testing.T) {
	ok, err := rowsAffected(fakeResult{affected: 0}, "delete team")
	if err != nil || ok {
		t.Fatalf("expected no rows, got %v %v", ok, err)
	}
	ok, err = rowsAffected(fakeResult{affected: 1}, "delete team")
	if err != nil || !ok {
		t.Fatalf("expected a row, got %v %v", ok, err)
	}
	if _, err = rowsAffected(fakeResult{err: errors.New("unsupported")}, "delete team"); err == nil {
		t.Fatalf("expected driver error to surface")
	}
}

func TestDeleteMatchesByTeamQuery(t *testing.T) {
	query, args, err := deleteMatchesByTeamQuery("team-1")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := "DELETE FROM matches WHERE (home_team_public_id = $1 OR away_team_public_id = $2)"
	if query != want {
		t.Fatalf("unexpected query:\n got %s\nwant %s", query, want)
	}
	if len(args) != 2 || args[0] != "team-1" || args[1] != "team-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestRowMapping(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	tour := tournamentFromRow(tournamentTableModel{PublicID: "t-1", Title: "Torneo", Date: sql.NullTime{Time: date, Valid: true}})
	if tour.ID != "t-1" || tour.Date == nil || !tour.Date.Equal(date) {
		t.Fatalf("unexpected tournament: %+v", tour)
	}
	if undated := tournamentFromRow(tournamentTableModel{PublicID: "t-2"}); undated.Date != nil {
		t.Fatalf("expected nil date, got %v", undated.Date)
	}

	legacy := playerFromRow(playerTableModel{PublicID: "p-1", TeamID: "team-1", Name: "Mario"})
	if legacy.Goals != nil || legacy.DisplayGoals() != 0 {
		t.Fatalf("expected null goals to stay nil, got %+v", legacy)
	}
	scorer := playerFromRow(playerTableModel{PublicID: "p-2", Goals: sql.NullInt64{Int64: 4, Valid: true}})
	if scorer.Goals == nil || *scorer.Goals != 4 {
		t.Fatalf("unexpected goals: %+v", scorer)
	}

	m := matchFromRow(matchTableModel{PublicID: "m-1", HomeTeamID: "a", AwayTeamID: "b", HomeGoals: 2, AwayGoals: 1})
	if m.PlayedAt != nil || m.HomeGoals != 2 || m.AwayTeamID != "b" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if nt := nullTime(&time.Time{}); nt.Valid {
		t.Fatalf("zero time must be stored as NULL")
	}
}

type fakeResult struct {
	affected int64
	err      error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }

func (r fakeResult) RowsAffected() (int64, error) { return r.affected, r.err }
