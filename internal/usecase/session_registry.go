package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/platform/cache"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
)

const defaultSessionTTL = 30 * time.Minute

// SessionRegistry keeps live workflows by session id. Idle sessions expire and are closed.
type SessionRegistry struct {
	factory *WorkflowFactory
	ids     id.Generator
	store   *cache.Store
	logger  *logging.Logger
}

func NewSessionRegistry(factory *WorkflowFactory, ids id.Generator, idleTTL time.Duration, logger *logging.Logger) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = defaultSessionTTL
	}
	if logger == nil {
		logger = logging.Default()
	}

	r := &SessionRegistry{
		factory: factory,
		ids:     ids,
		logger:  logger,
	}
	r.store = cache.NewStore(idleTTL,
		cache.WithSlidingExpiration(),
		cache.WithEvictionHook(r.evicted),
	)
	return r
}

func (r *SessionRegistry) evicted(sessionID string, value any) {
	if w, ok := value.(*Workflow); ok {
		w.Close()
	}
	r.logger.Debug("workflow session closed", "session_id", sessionID)
}

// Create starts a workflow and loads its first tournament. A load failure is kept
// on the workflow page state; the session is still returned.
func (r *SessionRegistry) Create(ctx context.Context) (string, *Workflow, error) {
	sessionID, err := r.ids.NewID()
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}

	w := r.factory.New(ctx)
	r.store.Set(ctx, sessionID, w)
	if err := w.Load(ctx); err != nil {
		r.logger.WarnContext(ctx, "initial workflow load failed", "session_id", sessionID, "error", err)
	}
	return sessionID, w, nil
}

func (r *SessionRegistry) Get(ctx context.Context, sessionID string) (*Workflow, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, validationError("session_id", "session id is required")
	}
	value, ok := r.store.Get(ctx, sessionID)
	if !ok {
		return nil, &Error{Kind: ErrNotFound, Message: "session not found", Err: fmt.Errorf("session=%s", sessionID)}
	}
	w, ok := value.(*Workflow)
	if !ok {
		return nil, fmt.Errorf("unexpected session value %T", value)
	}
	return w, nil
}

func (r *SessionRegistry) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.Get(ctx, sessionID); err != nil {
		return err
	}
	r.store.Delete(ctx, sessionID)
	return nil
}

func (r *SessionRegistry) Len() int {
	return r.store.Len()
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.store.Sweep(ctx); removed > 0 {
				r.logger.InfoContext(ctx, "expired workflow sessions swept", "removed", removed)
			}
		}
	}
}

// CloseAll closes every live workflow, used on shutdown.
func (r *SessionRegistry) CloseAll(ctx context.Context) {
	r.store.Clear(ctx)
}
