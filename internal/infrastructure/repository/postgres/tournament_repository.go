package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	qb "github.com/riskibarqy/club-tournaments/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		OrderBy("tournament_date DESC NULLS LAST", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq("public_id", tournamentID)).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament by id query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament by id: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) UpdateStructure(ctx context.Context, tournamentID, structure string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Update("tournaments").
		Set("structure", structure).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", tournamentID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build update tournament structure query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("update tournament structure: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:        row.PublicID,
		Title:     row.Title,
		Date:      timePtr(row.Date),
		Structure: row.Structure,
	}
}
