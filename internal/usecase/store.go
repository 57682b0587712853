package usecase

import (
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
)

// Store groups the repositories of one storage backend.
type Store struct {
	Tournaments tournament.Repository
	Teams       team.Repository
	Players     player.Repository
	Matches     match.Repository
}
