package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads seed into an empty database. It is a no-op once any tournament exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM tournaments`); err != nil {
		return fmt.Errorf("count tournaments for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, t := range seed.Tournaments {
		if err := exec("tournament "+t.ID, `
INSERT INTO tournaments (public_id, title, tournament_date, structure)
VALUES (:public_id, :title, :tournament_date, :structure)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       t.ID,
			"title":           t.Title,
			"tournament_date": nullTime(t.Date),
			"structure":       t.Structure,
		}); err != nil {
			return err
		}
	}

	for _, t := range seed.Teams {
		if err := exec("team "+t.ID, `
INSERT INTO teams (public_id, tournament_public_id, name)
VALUES (:public_id, :tournament_public_id, :name)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":            t.ID,
			"tournament_public_id": t.TournamentID,
			"name":                 t.Name,
		}); err != nil {
			return err
		}
	}

	for _, p := range seed.Players {
		if err := exec("player "+p.ID, `
INSERT INTO players (public_id, team_public_id, name, goals)
VALUES (:public_id, :team_public_id, :name, :goals)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"team_public_id": p.TeamID,
			"name":           p.Name,
			"goals":          p.Goals,
		}); err != nil {
			return err
		}
	}

	for _, m := range seed.Matches {
		if err := exec("match "+m.ID, `
INSERT INTO matches (public_id, tournament_public_id, home_team_public_id, away_team_public_id, home_goals, away_goals, played_at)
VALUES (:public_id, :tournament_public_id, :home_team_public_id, :away_team_public_id, :home_goals, :away_goals, :played_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":            m.ID,
			"tournament_public_id": m.TournamentID,
			"home_team_public_id":  m.HomeTeamID,
			"away_team_public_id":  m.AwayTeamID,
			"home_goals":           m.HomeGoals,
			"away_goals":           m.AwayGoals,
			"played_at":            nullTime(m.PlayedAt),
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
