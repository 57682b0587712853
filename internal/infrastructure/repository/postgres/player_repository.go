package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	qb "github.com/riskibarqy/club-tournaments/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewPlayerRepository(db *sqlx.DB, ids id.Generator) *PlayerRepository {
	if ids == nil {
		ids = id.NewXIDGenerator("player_")
	}
	return &PlayerRepository{db: db, ids: ids}
}

func (r *PlayerRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]player.Player, error) {
	if len(teamIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select("*").From("players").
		Where(qb.InStrings("team_public_id", teamIDs)).
		OrderBy("name", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by teams query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by teams: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) CreateBatch(ctx context.Context, teamID string, names []string) ([]player.Player, error) {
	names = player.CleanNames(names)
	if len(names) == 0 {
		return []player.Player{}, nil
	}

	models := make([]any, 0, len(names))
	for _, name := range names {
		publicID, err := r.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		models = append(models, playerInsertModel{
			PublicID: publicID,
			TeamID:   teamID,
			Name:     name,
			Goals:    0,
		})
	}

	query, args, err := qb.InsertModels("players", models, "RETURNING *")
	if err != nil {
		return nil, fmt.Errorf("build create players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, constraintError("create players", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) UpdateName(ctx context.Context, playerID, name string) (player.Player, bool, error) {
	return r.update(ctx, "update player name", qb.Update("players").Set("name", name), playerID)
}

func (r *PlayerRepository) UpdateGoals(ctx context.Context, playerID string, goals int) (player.Player, bool, error) {
	return r.update(ctx, "update player goals", qb.Update("players").Set("goals", goals), playerID)
}

func (r *PlayerRepository) update(ctx context.Context, op string, builder *qb.UpdateBuilder, playerID string) (player.Player, bool, error) {
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", playerID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, constraintError(op, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) (bool, error) {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete player query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete player: %w", err)
	}
	return rowsAffected(result, "delete player")
}

func (r *PlayerRepository) DeleteByTeam(ctx context.Context, teamID string) error {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("team_public_id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete players by team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete players by team: %w", err)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:     row.PublicID,
		TeamID: row.TeamID,
		Name:   row.Name,
		Goals:  nullIntToPtr(row.Goals),
	}
}
