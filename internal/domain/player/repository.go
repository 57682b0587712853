package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// ListByTeams returns players of the given teams ordered by name.
	ListByTeams(ctx context.Context, teamIDs []string) ([]Player, error)
	// CreateBatch inserts one zero-goal player per name.
	CreateBatch(ctx context.Context, teamID string, names []string) ([]Player, error)
	UpdateName(ctx context.Context, playerID, name string) (Player, bool, error)
	UpdateGoals(ctx context.Context, playerID string, goals int) (Player, bool, error)
	Delete(ctx context.Context, playerID string) (bool, error)
	DeleteByTeam(ctx context.Context, teamID string) error
}
