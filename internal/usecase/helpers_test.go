package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/user"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
)

const testSecret = "ius1"

type fakeAuth struct {
	mu           sync.Mutex
	session      *user.Session
	email        string
	password     string
	signOutErr   error
	listeners    map[int]func(user.Session, bool)
	nextListener int
	signIns      int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		email:     "admin@club.test",
		password:  "segreta",
		listeners: make(map[int]func(user.Session, bool)),
	}
}

func (a *fakeAuth) GetSession(context.Context) (user.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return user.Session{}, false
	}
	return *a.session, true
}

func (a *fakeAuth) SignIn(_ context.Context, identifier, secret string) (user.Session, error) {
	a.mu.Lock()
	a.signIns++
	if identifier != a.email || secret != a.password {
		a.mu.Unlock()
		return user.Session{}, &Error{Kind: ErrUnauthorized, Message: "Invalid login credentials", Err: errors.New("invalid login credentials")}
	}
	session := user.Session{UserID: "admin-1", Email: identifier, AccessToken: "token", ExpiresAt: time.Now().Add(time.Hour)}
	a.session = &session
	a.mu.Unlock()

	a.notify(session, true)
	return session, nil
}

func (a *fakeAuth) SignOut(context.Context) error {
	a.mu.Lock()
	if a.signOutErr != nil {
		err := a.signOutErr
		a.mu.Unlock()
		return err
	}
	a.session = nil
	a.mu.Unlock()

	a.notify(user.Session{}, false)
	return nil
}

func (a *fakeAuth) OnSessionChange(fn func(user.Session, bool)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := a.nextListener
	a.nextListener++
	a.listeners[key] = fn
	return func() {
		a.mu.Lock()
		delete(a.listeners, key)
		a.mu.Unlock()
	}
}

func (a *fakeAuth) listenerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.listeners)
}

func (a *fakeAuth) notify(session user.Session, ok bool) {
	a.mu.Lock()
	fns := make([]func(user.Session, bool), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(session, ok)
	}
}

type fakeAuthProvider struct {
	auth Authenticator
}

func (p fakeAuthProvider) NewAuthenticator() Authenticator {
	return p.auth
}

func memoryStore(db *memory.Database) Store {
	return Store{
		Tournaments: db.Tournaments(),
		Teams:       db.Teams(),
		Players:     db.Players(),
		Matches:     db.Matches(),
	}
}

func newTestWorkflow(t *testing.T, store Store, auth Authenticator) *Workflow {
	t.Helper()

	logger := logging.NewNop()
	factory := NewWorkflowFactory(
		NewTournamentService(store, logger),
		NewRegistrationService(store, testSecret, logger),
		store,
		fakeAuthProvider{auth: auth},
		logger,
	)
	w := factory.New(context.Background())
	t.Cleanup(w.Close)
	return w
}

// newAdminWorkflow returns a workflow on the seeded tournament, admin panel open and signed in.
func newAdminWorkflow(t *testing.T, store Store) (*Workflow, *fakeAuth) {
	t.Helper()

	ctx := context.Background()
	auth := newFakeAuth()
	w := newTestWorkflow(t, store, auth)
	if err := w.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := w.OpenAdmin(ctx, memory.TournamentID20260214); err != nil {
		t.Fatalf("open admin: %v", err)
	}
	if err := w.Authenticate(ctx, " admin@club.test ", "segreta"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if state := w.State(); state != StateAdminAuthenticated {
		t.Fatalf("expected authenticated state, got %s", state)
	}
	return w, auth
}
