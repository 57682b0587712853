package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL map with deduplicated loads.
// Every invalidation bumps gen; a load only stores its result if gen is unchanged.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	gen     uint64
	ttl     time.Duration
	sliding bool
	onEvict func(key string, value any)
	now     func() time.Time
	flight  singleflight.Group
}

type Option func(*Store)

// WithSlidingExpiration renews an entry's TTL on every hit.
func WithSlidingExpiration() Option {
	return func(s *Store) {
		s.sliding = true
	}
}

// WithEvictionHook is called outside the lock for every entry that leaves the store.
func WithEvictionHook(fn func(key string, value any)) Option {
	return func(s *Store) {
		s.onEvict = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(e, now) {
		s.remove(key, e)
		return nil, false
	}

	if s.sliding && s.ttl > 0 {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok {
			current.expiresAt = now.Add(s.ttl)
			s.entries[key] = current
		}
		s.mu.Unlock()
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.gen++
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.evicted(key, e.value)
	}
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	removed := make(map[string]any)
	s.mu.Lock()
	s.gen++
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) {
			removed[key] = e.value
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for key, value := range removed {
		s.evicted(key, value)
	}
}

// Clear removes every entry.
func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	s.gen++
	removed := s.entries
	s.entries = make(map[string]entry)
	s.mu.Unlock()

	for key, e := range removed {
		s.evicted(key, e.value)
	}
}

// Sweep drops every expired entry and reports how many were removed.
func (s *Store) Sweep(_ context.Context) int {
	now := s.now()
	removed := make(map[string]any)
	s.mu.Lock()
	for key, e := range s.entries {
		if s.expired(e, now) {
			removed[key] = e.value
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for key, value := range removed {
		s.evicted(key, value)
	}
	return len(removed)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	gen := s.generation()
	value, err, _ := s.flight.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.setIfGeneration(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// setIfGeneration drops value when an invalidation ran after gen was read.
func (s *Store) setIfGeneration(key string, value any, gen uint64) {
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store) remove(key string, seen entry) {
	s.mu.Lock()
	current, ok := s.entries[key]
	if ok && current.expiresAt.Equal(seen.expiresAt) {
		delete(s.entries, key)
	} else {
		ok = false
	}
	s.mu.Unlock()

	if ok {
		s.evicted(key, current.value)
	}
}

func (s *Store) evicted(key string, value any) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}
