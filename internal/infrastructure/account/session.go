package account

import (
	"sync"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/user"
)

// SessionHolder keeps one signed-in session and notifies subscribers when it changes.
// Listeners are called without the lock held.
type SessionHolder struct {
	mu        sync.Mutex
	session   *user.Session
	listeners map[int]func(user.Session, bool)
	nextID    int
}

// Current returns the session unless it expired at now.
func (h *SessionHolder) Current(now time.Time) (user.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil || h.session.Expired(now) {
		return user.Session{}, false
	}
	return *h.session, true
}

func (h *SessionHolder) Set(session user.Session) {
	h.mu.Lock()
	h.session = &session
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(session, true)
	}
}

// Clear drops the session and reports whether there was one.
func (h *SessionHolder) Clear() bool {
	h.mu.Lock()
	had := h.session != nil
	h.session = nil
	fns := h.snapshotListeners()
	h.mu.Unlock()

	if had {
		for _, fn := range fns {
			fn(user.Session{}, false)
		}
	}
	return had
}

// Token returns the raw access token of the held session, expired or not.
func (h *SessionHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return ""
	}
	return h.session.AccessToken
}

func (h *SessionHolder) Subscribe(fn func(user.Session, bool)) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[int]func(user.Session, bool))
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

func (h *SessionHolder) snapshotListeners() []func(user.Session, bool) {
	out := make([]func(user.Session, bool), 0, len(h.listeners))
	for _, fn := range h.listeners {
		out = append(out, fn)
	}
	return out
}
