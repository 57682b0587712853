package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	// ListByTournament returns matches ordered by played time, oldest first.
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)
	Create(ctx context.Context, m Match) (Match, error)
	// DeleteByTeam removes every match where teamID is home or away.
	DeleteByTeam(ctx context.Context, teamID string) error
}
