package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	qb "github.com/riskibarqy/club-tournaments/internal/platform/querybuilder"
)

type TeamRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewTeamRepository(db *sqlx.DB, ids id.Generator) *TeamRepository {
	if ids == nil {
		ids = id.NewXIDGenerator("team_")
	}
	return &TeamRepository{db: db, ids: ids}
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		OrderBy("name", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by tournament query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by tournament: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("validate team: %w", err)
	}
	publicID, err := r.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID:     publicID,
		TournamentID: item.TournamentID,
		Name:         item.Name,
	}, "RETURNING *")
	if err != nil {
		return team.Team{}, fmt.Errorf("build create team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.Team{}, constraintError("create team", err)
	}
	return teamFromRow(row), nil
}

// Delete removes the team; its players go with it through the players foreign key.
// Matches must be removed first.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) (bool, error) {
	query, args, err := qb.DeleteFrom("teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, constraintError("delete team", err)
	}
	return rowsAffected(result, "delete team")
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
	}
}
