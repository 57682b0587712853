package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotAuthenticated      = errors.New("admin session required")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNoRowsAffected        = errors.New("no rows affected")
	ErrBusy                  = errors.New("another action is in progress")
)

// Messages shown to the admin and to registering teams.
const (
	msgNoRowsAffected   = "Operazione non riuscita: nessuna riga aggiornata (permessi/RLS)."
	msgEmptyPlayerName  = "Il nome del giocatore non puo essere vuoto."
	msgInvalidGoals     = "I gol devono essere un numero intero non negativo."
	msgInvalidMatch     = "Compila correttamente il risultato della partita."
	msgMissingTeamName  = "Inserisci il nome della squadra."
	msgMissingSecret    = "Inserisci la password."
	msgWrongSecret      = "Password non corretta."
	msgRegistrationFail = "Errore durante la registrazione della squadra."
	msgNoTournament     = "Nessun torneo selezionato."
	msgAdminRequired    = "Accedi come amministratore per modificare il torneo."
	msgBusy             = "Operazione in corso, attendi."
	msgNoPendingDelete  = "Nessuna eliminazione da confermare."
	msgAdminClosed      = "Apri il pannello amministratore per accedere."
	msgTournamentAbsent = "Torneo non trovato."
	msgTeamAbsent       = "Squadra non trovata."
	msgPlayerAbsent     = "Giocatore non trovato."

	msgTeamDeleted      = "Squadra eliminata."
	msgPlayerDeleted    = "Giocatore eliminato."
	msgPlayerRenamed    = "Nome giocatore aggiornato."
	msgPlayerGoalsSaved = "Gol giocatore aggiornati."
	msgStructureSaved   = "Struttura torneo aggiornata."
	msgMatchAdded       = "Partita aggiunta."
	msgTeamRegistered   = "Squadra registrata."
)

// Error pairs a classification sentinel with the message shown to the user.
type Error struct {
	Kind error
	// Field names the offending input, when there is one.
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Message returns the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Error()
	}
	return err.Error()
}

func validationError(field, message string) error {
	return &Error{Kind: ErrInvalidInput, Field: field, Message: message}
}

// storeError surfaces the collaborator's own message unchanged.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return err
	}
	return &Error{Kind: ErrDependencyUnavailable, Message: err.Error(), Err: err}
}

func authError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrUnauthorized, Message: err.Error(), Err: err}
}

func noRowsError() error {
	return &Error{Kind: ErrNoRowsAffected, Message: msgNoRowsAffected}
}
