package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	qb "github.com/riskibarqy/club-tournaments/internal/platform/querybuilder"
)

type MatchRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewMatchRepository(db *sqlx.DB, ids id.Generator) *MatchRepository {
	if ids == nil {
		ids = id.NewXIDGenerator("match_")
	}
	return &MatchRepository{db: db, ids: ids}
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		OrderBy("played_at ASC NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by tournament query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by tournament: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("validate match: %w", err)
	}
	publicID, err := r.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:     publicID,
		TournamentID: m.TournamentID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeGoals:    m.HomeGoals,
		AwayGoals:    m.AwayGoals,
		PlayedAt:     nullTime(m.PlayedAt),
	}, "RETURNING *")
	if err != nil {
		return match.Match{}, fmt.Errorf("build create match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, constraintError("create match", err)
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) DeleteByTeam(ctx context.Context, teamID string) error {
	query, args, err := deleteMatchesByTeamQuery(teamID)
	if err != nil {
		return fmt.Errorf("build delete matches by team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete matches by team: %w", err)
	}
	return nil
}

func deleteMatchesByTeamQuery(teamID string) (string, []any, error) {
	return qb.DeleteFrom("matches").
		Where(qb.Or(
			qb.Eq("home_team_public_id", teamID),
			qb.Eq("away_team_public_id", teamID),
		)).
		ToSQL()
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		HomeGoals:    row.HomeGoals,
		AwayGoals:    row.AwayGoals,
		PlayedAt:     timePtr(row.PlayedAt),
	}
}
