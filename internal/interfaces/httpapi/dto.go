package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/standings"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
)

const dateLayout = "2006-01-02"

type registrationRequest struct {
	TeamName string   `json:"team_name" validate:"max=100"`
	Players  []string `json:"players" validate:"max=40,dive,max=100"`
	Secret   string   `json:"secret" validate:"max=200"`
}

type selectTournamentRequest struct {
	TournamentID string `json:"tournament_id" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=320"`
	Password string `json:"password" validate:"max=200"`
}

type structureDraftRequest struct {
	Structure string `json:"structure" validate:"max=10000"`
}

type structureCommitRequest struct {
	Structure *string `json:"structure" validate:"omitempty,max=10000"`
}

type playerDraftRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Goals *string `json:"goals" validate:"omitempty,max=10"`
}

type addMatchRequest struct {
	HomeTeamID string `json:"home_team_id" validate:"max=100"`
	AwayTeamID string `json:"away_team_id" validate:"max=100"`
	HomeGoals  string `json:"home_goals" validate:"max=10"`
	AwayGoals  string `json:"away_goals" validate:"max=10"`
}

type deletionRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=team player"`
	TeamID   string `json:"team_id" validate:"required,max=100"`
	PlayerID string `json:"player_id" validate:"required_if=Kind player,max=100"`
}

type beginRegistrationRequest struct {
	TeamName string   `json:"team_name" validate:"max=100"`
	Players  []string `json:"players" validate:"max=40,dive,max=100"`
}

type submitRegistrationRequest struct {
	Secret string `json:"secret" validate:"max=200"`
}

type tournamentDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date,omitempty"`
	Structure string `json:"structure"`
	Heading   string `json:"heading"`
}

type teamDTO struct {
	ID           string      `json:"id"`
	TournamentID string      `json:"tournamentId"`
	Name         string      `json:"name"`
	Players      []playerDTO `json:"players"`
}

type playerDTO struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Goals  int    `json:"goals"`
}

type matchDTO struct {
	ID           string `json:"id"`
	HomeTeamID   string `json:"homeTeamId"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamID   string `json:"awayTeamId"`
	AwayTeamName string `json:"awayTeamName"`
	HomeGoals    int    `json:"homeGoals"`
	AwayGoals    int    `json:"awayGoals"`
	PlayedAt     string `json:"playedAt,omitempty"`
}

type rankingEntryDTO struct {
	Position       int    `json:"position"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	Points         int    `json:"points"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
}

type topScorerDTO struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Goals      int    `json:"goals"`
}

type tournamentDetailDTO struct {
	Tournament tournamentDTO     `json:"tournament"`
	Teams      []teamDTO         `json:"teams"`
	Matches    []matchDTO        `json:"matches"`
	Ranking    []rankingEntryDTO `json:"ranking"`
	TopScorers []topScorerDTO    `json:"topScorers"`
}

type pendingDeleteDTO struct {
	Kind     string `json:"kind"`
	TeamID   string `json:"teamId"`
	PlayerID string `json:"playerId,omitempty"`
}

type registrationFormDTO struct {
	TeamName       string   `json:"teamName"`
	Players        []string `json:"players"`
	AwaitingSecret bool     `json:"awaitingSecret"`
	Error          string   `json:"error,omitempty"`
	SecretError    string   `json:"secretError,omitempty"`
	Notice         string   `json:"notice,omitempty"`
}

type workflowDTO struct {
	SessionID            string               `json:"sessionId"`
	State                string               `json:"state"`
	SelectedTournamentID string               `json:"selectedTournamentId,omitempty"`
	AdminTournamentID    string               `json:"adminTournamentId,omitempty"`
	ExpandedTeamID       string               `json:"expandedTeamId,omitempty"`
	AdminEmail           string               `json:"adminEmail,omitempty"`
	PendingDelete        *pendingDeleteDTO    `json:"pendingDelete,omitempty"`
	PageError            string               `json:"pageError,omitempty"`
	ActionError          string               `json:"actionError,omitempty"`
	ActionSuccess        string               `json:"actionSuccess,omitempty"`
	AdminError           string               `json:"adminError,omitempty"`
	Registration         registrationFormDTO  `json:"registration"`
	StructureDraft       string               `json:"structureDraft"`
	PlayerNameDrafts     map[string]string    `json:"playerNameDrafts"`
	PlayerGoalsDrafts    map[string]string    `json:"playerGoalsDrafts"`
	Loading              bool                 `json:"loading"`
	Tournaments          []tournamentDTO      `json:"tournaments"`
	Detail               *tournamentDetailDTO `json:"detail,omitempty"`
}

type registrationResultDTO struct {
	Team teamDTO `json:"team"`
}

type authSessionDTO struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	out := tournamentDTO{
		ID:        v.ID,
		Title:     v.Title,
		Structure: v.Structure,
		Heading:   v.Heading(),
	}
	if v.Date != nil && !v.Date.IsZero() {
		out.Date = v.Date.Format(dateLayout)
	}
	return out
}

func tournamentsToDTO(items []tournament.Tournament) []tournamentDTO {
	out := make([]tournamentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tournamentToDTO(item))
	}
	return out
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:     v.ID,
		TeamID: v.TeamID,
		Name:   v.Name,
		Goals:  v.DisplayGoals(),
	}
}

func teamToDTO(v team.Team, players []player.Player) teamDTO {
	out := teamDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Name:         v.Name,
		Players:      make([]playerDTO, 0, len(players)),
	}
	for _, p := range players {
		out.Players = append(out.Players, playerToDTO(p))
	}
	return out
}

func matchToDTO(v match.Match, teamNames map[string]string) matchDTO {
	out := matchDTO{
		ID:           v.ID,
		HomeTeamID:   v.HomeTeamID,
		HomeTeamName: teamNames[v.HomeTeamID],
		AwayTeamID:   v.AwayTeamID,
		AwayTeamName: teamNames[v.AwayTeamID],
		HomeGoals:    v.HomeGoals,
		AwayGoals:    v.AwayGoals,
	}
	if v.PlayedAt != nil && !v.PlayedAt.IsZero() {
		out.PlayedAt = v.PlayedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func rankingToDTO(items []standings.RankingEntry) []rankingEntryDTO {
	out := make([]rankingEntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, rankingEntryDTO{
			Position:       e.Position,
			TeamID:         e.TeamID,
			TeamName:       e.TeamName,
			Points:         e.Points,
			Played:         e.Played,
			Won:            e.Won,
			Draw:           e.Draw,
			Lost:           e.Lost,
			GoalsFor:       e.GoalsFor,
			GoalsAgainst:   e.GoalsAgainst,
			GoalDifference: e.GoalDifference,
		})
	}
	return out
}

func topScorersToDTO(items []standings.TopScorer) []topScorerDTO {
	out := make([]topScorerDTO, 0, len(items))
	for _, s := range items {
		out = append(out, topScorerDTO{
			PlayerID:   s.PlayerID,
			PlayerName: s.PlayerName,
			TeamID:     s.TeamID,
			TeamName:   s.TeamName,
			Goals:      s.Goals,
		})
	}
	return out
}

func readModelToDTO(ctx context.Context, m usecase.ReadModel) tournamentDetailDTO {
	_, span := startSpan(ctx, "httpapi.readModelToDTO")
	defer span.End()

	byTeam := m.PlayersByTeam()
	teamNames := make(map[string]string, len(m.Teams))
	teams := make([]teamDTO, 0, len(m.Teams))
	for _, t := range m.Teams {
		teamNames[t.ID] = t.Name
		teams = append(teams, teamToDTO(t, byTeam[t.ID]))
	}

	matches := make([]matchDTO, 0, len(m.Matches))
	for _, item := range m.Matches {
		matches = append(matches, matchToDTO(item, teamNames))
	}

	return tournamentDetailDTO{
		Tournament: tournamentToDTO(m.Tournament),
		Teams:      teams,
		Matches:    matches,
		Ranking:    rankingToDTO(m.Ranking),
		TopScorers: topScorersToDTO(m.TopScorers),
	}
}

func snapshotToDTO(ctx context.Context, sessionID string, s usecase.WorkflowSnapshot) workflowDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	out := workflowDTO{
		SessionID:            sessionID,
		State:                string(s.State),
		SelectedTournamentID: s.SelectedTournamentID,
		AdminTournamentID:    s.AdminTournamentID,
		ExpandedTeamID:       s.ExpandedTeamID,
		AdminEmail:           s.AdminEmail,
		PageError:            s.PageError,
		ActionError:          s.ActionError,
		ActionSuccess:        s.ActionSuccess,
		AdminError:           s.AdminError,
		Registration: registrationFormDTO{
			TeamName:       s.Registration.TeamName,
			Players:        append([]string{}, s.Registration.Players...),
			AwaitingSecret: s.Registration.AwaitingSecret,
			Error:          s.Registration.Error,
			SecretError:    s.Registration.SecretError,
			Notice:         s.Registration.Notice,
		},
		StructureDraft:    s.StructureDraft,
		PlayerNameDrafts:  nonNilMap(s.PlayerNameDrafts),
		PlayerGoalsDrafts: nonNilMap(s.PlayerGoalsDrafts),
		Loading:           s.Loading,
		Tournaments:       tournamentsToDTO(s.Tournaments),
	}
	if s.PendingDelete != nil {
		out.PendingDelete = &pendingDeleteDTO{
			Kind:     string(s.PendingDelete.Kind),
			TeamID:   s.PendingDelete.TeamID,
			PlayerID: s.PendingDelete.PlayerID,
		}
	}
	if s.ReadModel != nil {
		detail := readModelToDTO(ctx, *s.ReadModel)
		out.Detail = &detail
	}
	return out
}

func sessionToDTO(s user.Session) authSessionDTO {
	out := authSessionDTO{UserID: s.UserID, Email: s.Email}
	if !s.ExpiresAt.IsZero() {
		out.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return out
}

func nonNilMap(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return in
}
