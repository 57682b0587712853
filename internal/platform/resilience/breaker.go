package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config describes one breaker. A disabled config yields a nil *Breaker, which runs calls directly.
type Config struct {
	Name             string
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (c Config) normalize() Config {
	defaults := DefaultConfig(c.Name)
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

type Option func(*Breaker)

func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// WithStateListener is called after every transition, outside the breaker lock.
func WithStateListener(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// Breaker trips after FailureThreshold consecutive counted failures, rejects calls for
// OpenTimeout, then admits HalfOpenMaxReq probes before closing again.
type Breaker struct {
	mu sync.Mutex

	cfg      Config
	now      func() time.Time
	onChange func(name string, from, to State)

	state     State
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
}

func New(cfg Config, opts ...Option) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	b := &Breaker{
		cfg:   cfg.normalize(),
		now:   time.Now,
		state: StateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	if b == nil {
		return ""
	}
	return b.cfg.Name
}

// Do runs fn through the breaker. Only errors accepted by countFailure trip it;
// a nil countFailure counts every error.
func (b *Breaker) Do(fn func() error, countFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (countFailure == nil || countFailure(err)) {
		b.record(false)
		return err
	}
	b.record(true)
	return err
}

func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	from := b.state

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.mu.Unlock()
			return ErrOpen
		}
		b.transition(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenMaxReq {
			to := b.state
			b.mu.Unlock()
			b.notify(from, to)
			return ErrOpen
		}
		b.inFlight++
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		if b.inFlight > 0 {
			b.inFlight--
		}
		if !success {
			b.transition(StateOpen)
			break
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.inFlight == 0 {
			b.transition(StateClosed)
		}
	case StateOpen:
		if !success {
			b.openedAt = b.now()
		}
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *Breaker) transition(to State) {
	b.state = to
	b.inFlight = 0
	b.successes = 0
	switch to {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(b.cfg.Name, from, to)
	}
}
