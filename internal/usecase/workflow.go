package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type WorkflowState string

const (
	StateViewing            WorkflowState = "viewing"
	StateAdminLoginPending  WorkflowState = "admin_login_pending"
	StateAdminAuthenticated WorkflowState = "admin_authenticated"
)

type PendingDeleteKind string

const (
	PendingDeleteTeam   PendingDeleteKind = "team"
	PendingDeletePlayer PendingDeleteKind = "player"
)

// PendingDelete is the single armed destructive action awaiting confirmation.
type PendingDelete struct {
	Kind     PendingDeleteKind
	TeamID   string
	PlayerID string
}

// RegistrationForm is the public self-registration in progress.
type RegistrationForm struct {
	TeamName       string
	Players        []string
	AwaitingSecret bool
	Error          string
	SecretError    string
	Notice         string
}

// MatchForm carries the raw add-match inputs; goals are parsed during validation.
type MatchForm struct {
	HomeTeamID string
	AwayTeamID string
	HomeGoals  string
	AwayGoals  string
}

type WorkflowSnapshot struct {
	State                WorkflowState
	SelectedTournamentID string
	AdminTournamentID    string
	ExpandedTeamID       string
	AdminEmail           string
	PendingDelete        *PendingDelete
	PageError            string
	ActionError          string
	ActionSuccess        string
	AdminError           string
	Registration         RegistrationForm
	StructureDraft       string
	PlayerNameDrafts     map[string]string
	PlayerGoalsDrafts    map[string]string
	Loading              bool
	Tournaments          []tournament.Tournament
	ReadModel            *ReadModel
}

type WorkflowFactory struct {
	tournaments   *TournamentService
	registrations *RegistrationService
	store         Store
	auth          AuthProvider
	logger        *logging.Logger
	now           func() time.Time
}

func NewWorkflowFactory(
	tournaments *TournamentService,
	registrations *RegistrationService,
	store Store,
	auth AuthProvider,
	logger *logging.Logger,
) *WorkflowFactory {
	if logger == nil {
		logger = logging.Default()
	}
	return &WorkflowFactory{
		tournaments:   tournaments,
		registrations: registrations,
		store:         store,
		auth:          auth,
		logger:        logger,
		now:           time.Now,
	}
}

// New starts a workflow in Viewing with its own auth session. Call Close when done.
func (f *WorkflowFactory) New(ctx context.Context) *Workflow {
	w := &Workflow{
		tournaments:   f.tournaments,
		registrations: f.registrations,
		store:         f.store,
		auth:          f.auth.NewAuthenticator(),
		logger:        f.logger,
		now:           f.now,
		nameDrafts:    make(map[string]string),
		goalsDrafts:   make(map[string]string),
	}

	if session, ok := w.auth.GetSession(ctx); ok {
		w.session = &session
	}
	w.unsubscribe = w.auth.OnSessionChange(w.onSessionChange)
	return w
}

// Workflow is one visitor's tournament page: selection, admin login, drafts and edits.
// Store and auth calls run without holding mu; busy admits one such call at a time.
type Workflow struct {
	tournaments   *TournamentService
	registrations *RegistrationService
	store         Store
	auth          Authenticator
	logger        *logging.Logger
	now           func() time.Time

	closeOnce   sync.Once
	unsubscribe func()
	busy        atomic.Bool

	mu             sync.Mutex
	tournamentList []tournament.Tournament
	selectedID     string
	adminID        string
	expandedTeamID string
	session        *user.Session
	pending        *PendingDelete
	pageError      string
	actionError    string
	actionSuccess  string
	adminError     string
	registration   RegistrationForm
	structureDraft string
	nameDrafts     map[string]string
	goalsDrafts    map[string]string
	loading        bool
	model          *ReadModel
}

func (w *Workflow) Close() {
	w.closeOnce.Do(func() {
		if w.unsubscribe != nil {
			w.unsubscribe()
		}
	})
}

func (w *Workflow) onSessionChange(session user.Session, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ok {
		w.session = &session
		return
	}
	w.session = nil
}

func (w *Workflow) Snapshot() WorkflowSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := WorkflowSnapshot{
		State:                w.stateLocked(),
		SelectedTournamentID: w.selectedID,
		AdminTournamentID:    w.adminID,
		ExpandedTeamID:       w.expandedTeamID,
		PageError:            w.pageError,
		ActionError:          w.actionError,
		ActionSuccess:        w.actionSuccess,
		AdminError:           w.adminError,
		Registration:         w.registration,
		StructureDraft:       w.structureDraft,
		PlayerNameDrafts:     make(map[string]string, len(w.nameDrafts)),
		PlayerGoalsDrafts:    make(map[string]string, len(w.goalsDrafts)),
		Loading:              w.loading,
		Tournaments:          append([]tournament.Tournament(nil), w.tournamentList...),
	}
	snap.Registration.Players = append([]string(nil), w.registration.Players...)
	if w.session != nil {
		snap.AdminEmail = w.session.Email
	}
	if w.pending != nil {
		pending := *w.pending
		snap.PendingDelete = &pending
	}
	for k, v := range w.nameDrafts {
		snap.PlayerNameDrafts[k] = v
	}
	for k, v := range w.goalsDrafts {
		snap.PlayerGoalsDrafts[k] = v
	}
	if w.model != nil {
		model := w.model.clone()
		snap.ReadModel = &model
	}
	return snap
}

func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workflow) stateLocked() WorkflowState {
	if w.adminID == "" || w.adminID != w.selectedID {
		return StateViewing
	}
	if w.authenticatedLocked() {
		return StateAdminAuthenticated
	}
	return StateAdminLoginPending
}

func (w *Workflow) authenticatedLocked() bool {
	return w.session != nil && !w.session.Expired(w.now())
}

func (w *Workflow) begin() error {
	if !w.busy.CompareAndSwap(false, true) {
		return &Error{Kind: ErrBusy, Message: msgBusy}
	}
	w.mu.Lock()
	w.loading = true
	w.mu.Unlock()
	return nil
}

func (w *Workflow) end() {
	w.mu.Lock()
	w.loading = false
	w.mu.Unlock()
	w.busy.Store(false)
}

// Load lists tournaments, keeps the current selection when it still exists and loads it.
func (w *Workflow) Load(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.Load")
	defer span.End()

	return w.reloadTournaments(ctx)
}

func (w *Workflow) reloadTournaments(ctx context.Context) error {
	items, err := w.tournaments.ListTournaments(ctx)
	if err != nil {
		w.mu.Lock()
		w.tournamentList = nil
		w.model = nil
		w.pageError = Message(err)
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.tournamentList = items
	w.pageError = ""
	selected := w.selectedID
	if _, ok := findTournament(items, selected); !ok {
		selected = ""
		if len(items) > 0 {
			selected = items[0].ID
		}
	}
	if selected != w.selectedID {
		w.nameDrafts = make(map[string]string)
		w.goalsDrafts = make(map[string]string)
	}
	w.selectedID = selected
	if item, ok := findTournament(items, selected); ok {
		w.structureDraft = item.Structure
	} else {
		w.structureDraft = ""
	}
	w.mu.Unlock()

	if selected == "" {
		w.mu.Lock()
		w.model = nil
		w.mu.Unlock()
		return nil
	}
	return w.refresh(ctx, selected)
}

// refresh rebuilds the read model and reseeds drafts, keeping unsaved drafts of surviving players.
func (w *Workflow) refresh(ctx context.Context, tournamentID string) error {
	model, err := w.tournaments.LoadTournament(ctx, tournamentID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selectedID != tournamentID {
		return nil
	}
	if err != nil {
		w.model = nil
		w.pageError = Message(err)
		return err
	}

	w.model = &model
	w.pageError = ""

	names := make(map[string]string, len(model.Players))
	goals := make(map[string]string, len(model.Players))
	for _, p := range model.Players {
		if v, ok := w.nameDrafts[p.ID]; ok {
			names[p.ID] = v
		} else {
			names[p.ID] = p.Name
		}
		if v, ok := w.goalsDrafts[p.ID]; ok {
			goals[p.ID] = v
		} else {
			goals[p.ID] = strconv.Itoa(p.DisplayGoals())
		}
	}
	w.nameDrafts = names
	w.goalsDrafts = goals

	if _, ok := model.Team(w.expandedTeamID); !ok {
		w.expandedTeamID = ""
	}
	return nil
}

func findTournament(items []tournament.Tournament, id string) (tournament.Tournament, bool) {
	if id == "" {
		return tournament.Tournament{}, false
	}
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return tournament.Tournament{}, false
}

// SelectTournament switches tournament, discarding drafts and transient UI state.
func (w *Workflow) SelectTournament(ctx context.Context, tournamentID string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.SelectTournament", attribute.String("tournament.id", tournamentID))
	defer span.End()

	if err := w.switchTournament(strings.TrimSpace(tournamentID), false); err != nil {
		return err
	}
	return w.refresh(ctx, w.selected())
}

// OpenAdmin selects the tournament and opens its admin panel.
func (w *Workflow) OpenAdmin(ctx context.Context, tournamentID string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.OpenAdmin", attribute.String("tournament.id", tournamentID))
	defer span.End()

	if err := w.switchTournament(strings.TrimSpace(tournamentID), true); err != nil {
		return err
	}
	return w.refresh(ctx, w.selected())
}

func (w *Workflow) switchTournament(tournamentID string, openAdmin bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	item, ok := findTournament(w.tournamentList, tournamentID)
	if !ok {
		w.actionError = msgTournamentAbsent
		return &Error{Kind: ErrNotFound, Field: "tournament_id", Message: msgTournamentAbsent}
	}

	if w.selectedID != tournamentID {
		w.nameDrafts = make(map[string]string)
		w.goalsDrafts = make(map[string]string)
		w.model = nil
	}
	w.selectedID = tournamentID
	w.structureDraft = item.Structure
	w.expandedTeamID = ""
	w.pending = nil
	w.actionError = ""
	w.actionSuccess = ""
	w.registration = RegistrationForm{}
	if openAdmin {
		w.adminID = tournamentID
		w.adminError = ""
	}
	return nil
}

// CloseAdmin leaves admin mode and reloads the public view.
func (w *Workflow) CloseAdmin(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.CloseAdmin")
	defer span.End()

	w.mu.Lock()
	w.adminID = ""
	w.pending = nil
	w.actionError = ""
	w.actionSuccess = ""
	selected := w.selectedID
	w.mu.Unlock()

	if selected == "" {
		return nil
	}
	return w.refresh(ctx, selected)
}

// ToggleTeam expands a team's roster or collapses it when already expanded.
func (w *Workflow) ToggleTeam(teamID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expandedTeamID == teamID {
		w.expandedTeamID = ""
		return nil
	}
	if w.model == nil {
		return &Error{Kind: ErrNotFound, Message: msgTeamAbsent}
	}
	if _, ok := w.model.Team(teamID); !ok {
		return &Error{Kind: ErrNotFound, Message: msgTeamAbsent}
	}
	w.expandedTeamID = teamID
	return nil
}

func (w *Workflow) Authenticate(ctx context.Context, email, password string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.Authenticate")
	defer span.End()

	w.mu.Lock()
	if w.stateLocked() == StateViewing {
		w.mu.Unlock()
		return validationError("", msgAdminClosed)
	}
	w.adminError = ""
	w.pending = nil
	w.mu.Unlock()

	session, err := w.auth.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		w.mu.Lock()
		w.adminError = err.Error()
		w.mu.Unlock()
		w.logger.WarnContext(ctx, "admin sign-in failed", "error", err)
		return authError(err)
	}

	w.mu.Lock()
	w.session = &session
	w.mu.Unlock()
	w.logger.InfoContext(ctx, "admin signed in", "user_id", session.UserID)
	return nil
}

func (w *Workflow) Logout(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.Logout")
	defer span.End()

	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()

	if err := w.auth.SignOut(ctx); err != nil {
		w.mu.Lock()
		w.adminError = err.Error()
		w.mu.Unlock()
		return authError(err)
	}

	w.mu.Lock()
	w.session = nil
	w.actionError = ""
	w.actionSuccess = ""
	w.mu.Unlock()
	return nil
}

func (w *Workflow) SetStructureDraft(text string) {
	w.mu.Lock()
	w.structureDraft = text
	w.mu.Unlock()
}

func (w *Workflow) SetPlayerNameDraft(playerID, name string) {
	w.mu.Lock()
	w.nameDrafts[playerID] = name
	w.mu.Unlock()
}

func (w *Workflow) SetPlayerGoalsDraft(playerID, goals string) {
	w.mu.Lock()
	w.goalsDrafts[playerID] = goals
	w.mu.Unlock()
}

// beginAdmin starts an edit action: it takes the busy slot, requires an admin session
// and disarms any pending delete.
func (w *Workflow) beginAdmin() (string, error) {
	if err := w.begin(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stateLocked() != StateAdminAuthenticated {
		w.actionError = msgAdminRequired
		w.loading = false
		w.busy.Store(false)
		return "", &Error{Kind: ErrNotAuthenticated, Message: msgAdminRequired}
	}
	w.pending = nil
	return w.selectedID, nil
}

func (w *Workflow) rejectLocal(err error) error {
	w.mu.Lock()
	w.actionError = Message(err)
	w.actionSuccess = ""
	w.mu.Unlock()
	return err
}

func (w *Workflow) clearMessages() {
	w.mu.Lock()
	w.actionError = ""
	w.actionSuccess = ""
	w.mu.Unlock()
}

func (w *Workflow) failCommit(ctx context.Context, action string, err error) error {
	w.logger.WarnContext(ctx, "admin action failed", "action", action, "error", err)
	return w.rejectLocal(err)
}

// committed refreshes after a successful write and records the success message.
// A refresh failure is reported on the page; the write itself stands.
func (w *Workflow) committed(ctx context.Context, tournamentID, action, message string) {
	if err := w.refresh(ctx, tournamentID); err != nil {
		w.logger.WarnContext(ctx, "refresh after commit failed", "action", action, "error", err)
	}
	w.mu.Lock()
	w.actionSuccess = message
	w.mu.Unlock()
	w.logger.InfoContext(ctx, "admin action committed", "action", action, "tournament_id", tournamentID)
}

func (w *Workflow) RenamePlayer(ctx context.Context, playerID string) error {
	tournamentID, err := w.beginAdmin()
	if err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.RenamePlayer", attribute.String("player.id", playerID))
	defer span.End()

	w.mu.Lock()
	name := strings.TrimSpace(w.nameDrafts[playerID])
	w.mu.Unlock()
	if name == "" {
		return w.rejectLocal(validationError("name", msgEmptyPlayerName))
	}

	w.clearMessages()
	_, ok, err := w.store.Players.UpdateName(ctx, playerID, name)
	if err != nil {
		return w.failCommit(ctx, "rename_player", storeError(err))
	}
	if !ok {
		return w.failCommit(ctx, "rename_player", noRowsError())
	}

	w.committed(ctx, tournamentID, "rename_player", msgPlayerRenamed)
	return nil
}

func (w *Workflow) UpdatePlayerGoals(ctx context.Context, playerID string) error {
	tournamentID, err := w.beginAdmin()
	if err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.UpdatePlayerGoals", attribute.String("player.id", playerID))
	defer span.End()

	w.mu.Lock()
	raw, ok := w.goalsDrafts[playerID]
	w.mu.Unlock()
	if !ok {
		raw = "0"
	}
	goals, err := parseNonNegative(raw)
	if err != nil {
		return w.rejectLocal(validationError("goals", msgInvalidGoals))
	}

	w.clearMessages()
	_, ok, err = w.store.Players.UpdateGoals(ctx, playerID, goals)
	if err != nil {
		return w.failCommit(ctx, "update_player_goals", storeError(err))
	}
	if !ok {
		return w.failCommit(ctx, "update_player_goals", noRowsError())
	}

	w.committed(ctx, tournamentID, "update_player_goals", msgPlayerGoalsSaved)
	return nil
}

// UpdateStructure saves the structure draft verbatim; an empty text is allowed.
func (w *Workflow) UpdateStructure(ctx context.Context) error {
	tournamentID, err := w.beginAdmin()
	if err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.UpdateStructure", attribute.String("tournament.id", tournamentID))
	defer span.End()

	w.mu.Lock()
	draft := w.structureDraft
	w.mu.Unlock()

	w.clearMessages()
	_, ok, err := w.store.Tournaments.UpdateStructure(ctx, tournamentID, draft)
	if err != nil {
		return w.failCommit(ctx, "update_structure", storeError(err))
	}
	if !ok {
		return w.failCommit(ctx, "update_structure", noRowsError())
	}

	if err := w.reloadTournaments(ctx); err != nil {
		w.logger.WarnContext(ctx, "reload tournaments after commit failed", "error", err)
	}
	w.mu.Lock()
	w.actionSuccess = msgStructureSaved
	w.mu.Unlock()
	return nil
}

func (w *Workflow) AddMatch(ctx context.Context, form MatchForm) error {
	tournamentID, err := w.beginAdmin()
	if err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.AddMatch", attribute.String("tournament.id", tournamentID))
	defer span.End()

	m, err := w.matchFromForm(tournamentID, form)
	if err != nil {
		return w.rejectLocal(err)
	}

	w.clearMessages()
	created, err := w.store.Matches.Create(ctx, m)
	if err != nil {
		return w.failCommit(ctx, "add_match", storeError(err))
	}
	if created.ID == "" {
		return w.failCommit(ctx, "add_match", noRowsError())
	}

	w.committed(ctx, tournamentID, "add_match", msgMatchAdded)
	return nil
}

func (w *Workflow) matchFromForm(tournamentID string, form MatchForm) (match.Match, error) {
	invalid := validationError("match", msgInvalidMatch)

	home := strings.TrimSpace(form.HomeTeamID)
	away := strings.TrimSpace(form.AwayTeamID)
	if home == "" || away == "" || home == away {
		return match.Match{}, invalid
	}
	homeGoals, err := parseNonNegative(form.HomeGoals)
	if err != nil {
		return match.Match{}, invalid
	}
	awayGoals, err := parseNonNegative(form.AwayGoals)
	if err != nil {
		return match.Match{}, invalid
	}

	w.mu.Lock()
	model := w.model
	w.mu.Unlock()
	if model == nil {
		return match.Match{}, invalid
	}
	if _, ok := model.Team(home); !ok {
		return match.Match{}, invalid
	}
	if _, ok := model.Team(away); !ok {
		return match.Match{}, invalid
	}

	playedAt := w.now().UTC()
	m := match.Match{
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeGoals:    homeGoals,
		AwayGoals:    awayGoals,
		PlayedAt:     &playedAt,
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, invalid
	}
	return m, nil
}

func parseNonNegative(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("value %d is negative", v)
	}
	return v, nil
}

// RequestDeleteTeam arms the delete slot for a team. Nothing is written until ConfirmDelete.
func (w *Workflow) RequestDeleteTeam(teamID string) error {
	return w.arm(PendingDelete{Kind: PendingDeleteTeam, TeamID: teamID})
}

// RequestDeletePlayer arms the delete slot for one player of a team.
func (w *Workflow) RequestDeletePlayer(teamID, playerID string) error {
	return w.arm(PendingDelete{Kind: PendingDeletePlayer, TeamID: teamID, PlayerID: playerID})
}

func (w *Workflow) arm(target PendingDelete) error {
	if w.busy.Load() {
		return &Error{Kind: ErrBusy, Message: msgBusy}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stateLocked() != StateAdminAuthenticated {
		w.actionError = msgAdminRequired
		return &Error{Kind: ErrNotAuthenticated, Message: msgAdminRequired}
	}
	if w.model == nil {
		return &Error{Kind: ErrNotFound, Message: msgTeamAbsent}
	}
	if _, ok := w.model.Team(target.TeamID); !ok {
		return &Error{Kind: ErrNotFound, Field: "team_id", Message: msgTeamAbsent}
	}
	if target.Kind == PendingDeletePlayer {
		p, ok := w.model.Player(target.PlayerID)
		if !ok || p.TeamID != target.TeamID {
			return &Error{Kind: ErrNotFound, Field: "player_id", Message: msgPlayerAbsent}
		}
	}

	w.pending = &target
	return nil
}

func (w *Workflow) CancelDelete() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
}

// ConfirmDelete executes the armed delete. On failure the slot stays armed.
func (w *Workflow) ConfirmDelete(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	w.mu.Lock()
	if w.stateLocked() != StateAdminAuthenticated {
		w.actionError = msgAdminRequired
		w.mu.Unlock()
		return &Error{Kind: ErrNotAuthenticated, Message: msgAdminRequired}
	}
	if w.pending == nil {
		w.mu.Unlock()
		return w.rejectLocal(validationError("", msgNoPendingDelete))
	}
	target := *w.pending
	tournamentID := w.selectedID
	w.mu.Unlock()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.ConfirmDelete",
		attribute.String("delete.kind", string(target.Kind)),
		attribute.String("team.id", target.TeamID),
	)
	defer span.End()

	w.clearMessages()
	switch target.Kind {
	case PendingDeleteTeam:
		if err := w.deleteTeamCascade(ctx, target.TeamID); err != nil {
			return w.failCommit(ctx, "delete_team", err)
		}
		w.mu.Lock()
		w.pending = nil
		if w.expandedTeamID == target.TeamID {
			w.expandedTeamID = ""
		}
		w.mu.Unlock()
		w.committed(ctx, tournamentID, "delete_team", msgTeamDeleted)
	case PendingDeletePlayer:
		ok, err := w.store.Players.Delete(ctx, target.PlayerID)
		if err != nil {
			return w.failCommit(ctx, "delete_player", storeError(err))
		}
		if !ok {
			return w.failCommit(ctx, "delete_player", noRowsError())
		}
		w.mu.Lock()
		w.pending = nil
		w.mu.Unlock()
		w.committed(ctx, tournamentID, "delete_player", msgPlayerDeleted)
	default:
		return w.rejectLocal(validationError("", msgNoPendingDelete))
	}
	return nil
}

// deleteTeamCascade removes the team's matches, then the team. When the team delete is
// rejected it deletes the players and retries the team exactly once.
func (w *Workflow) deleteTeamCascade(ctx context.Context, teamID string) error {
	if err := w.store.Matches.DeleteByTeam(ctx, teamID); err != nil {
		return storeError(err)
	}

	ok, err := w.store.Teams.Delete(ctx, teamID)
	if err == nil && ok {
		return nil
	}
	w.logger.WarnContext(ctx, "team delete rejected, removing players first", "team_id", teamID, "error", err, "affected", ok)

	if err := w.store.Players.DeleteByTeam(ctx, teamID); err != nil {
		return storeError(err)
	}
	ok, err = w.store.Teams.Delete(ctx, teamID)
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return noRowsError()
	}
	return nil
}

// BeginRegistration validates the team name and asks for the shared secret.
func (w *Workflow) BeginRegistration(teamName string, players []string) error {
	if w.busy.Load() {
		return &Error{Kind: ErrBusy, Message: msgBusy}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.registration.Error = ""
	w.registration.SecretError = ""
	w.registration.Notice = ""
	w.registration.TeamName = teamName
	w.registration.Players = append([]string(nil), players...)
	if w.selectedID == "" {
		w.registration.Error = msgNoTournament
		return validationError("tournament_id", msgNoTournament)
	}
	if _, err := w.registrations.ValidateTeamName(teamName); err != nil {
		w.registration.Error = Message(err)
		w.registration.AwaitingSecret = false
		return err
	}
	w.registration.AwaitingSecret = true
	return nil
}

// SubmitRegistration checks the secret, creates the team with its players and refreshes.
func (w *Workflow) SubmitRegistration(ctx context.Context, secret string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	ctx, span := startUsecaseSpan(ctx, "usecase.Workflow.SubmitRegistration")
	defer span.End()

	w.mu.Lock()
	form := w.registration
	tournamentID := w.selectedID
	w.registration.Error = ""
	w.registration.SecretError = ""
	w.mu.Unlock()

	if !form.AwaitingSecret {
		err := validationError("team_name", msgMissingTeamName)
		w.mu.Lock()
		w.registration.Error = msgMissingTeamName
		w.mu.Unlock()
		return err
	}
	if err := w.registrations.CheckSecret(secret); err != nil {
		w.mu.Lock()
		w.registration.SecretError = Message(err)
		w.mu.Unlock()
		return err
	}

	_, err := w.registrations.Register(ctx, RegistrationInput{
		TournamentID: tournamentID,
		TeamName:     form.TeamName,
		Players:      form.Players,
		Secret:       secret,
	})
	if err != nil {
		w.mu.Lock()
		w.registration.Error = Message(err)
		w.mu.Unlock()
		return err
	}

	if err := w.refresh(ctx, tournamentID); err != nil {
		w.logger.WarnContext(ctx, "refresh after registration failed", "error", err)
	}
	w.mu.Lock()
	w.registration = RegistrationForm{Notice: msgTeamRegistered}
	w.mu.Unlock()
	return nil
}

func (w *Workflow) CancelRegistration() {
	w.mu.Lock()
	w.registration = RegistrationForm{}
	w.mu.Unlock()
}

func (w *Workflow) selected() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedID
}
