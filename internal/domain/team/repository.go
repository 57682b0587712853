package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// ListByTournament returns the tournament's teams ordered by name.
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	Create(ctx context.Context, team Team) (Team, error)
	// Delete reports false when no row matched teamID.
	Delete(ctx context.Context, teamID string) (bool, error)
}
