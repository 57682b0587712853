package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("store down")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected second load to succeed, got %v %v", v, err)
	}
}

func TestStore_TTLExpiryAndSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	var evicted []string
	store := NewStore(time.Minute,
		WithClock(func() time.Time { return now }),
		WithEvictionHook(func(key string, _ any) { evicted = append(evicted, key) }),
	)
	ctx := context.Background()

	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)
	now = now.Add(2 * time.Minute)

	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatalf("expected a to be expired")
	}
	if removed := store.Sweep(ctx); removed != 1 {
		t.Fatalf("expected sweep to remove 1 entry, got %d", removed)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
	if len(evicted) != 2 {
		t.Fatalf("expected both keys evicted, got %v", evicted)
	}
}

func TestStore_SlidingExpiration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute, WithSlidingExpiration(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	store.Set(ctx, "session", "s1")
	for i := 0; i < 3; i++ {
		now = now.Add(40 * time.Second)
		if _, ok := store.Get(ctx, "session"); !ok {
			t.Fatalf("expected sliding entry to survive hit %d", i)
		}
	}

	now = now.Add(61 * time.Second)
	if _, ok := store.Get(ctx, "session"); ok {
		t.Fatalf("expected idle entry to expire")
	}
}

func TestStore_DeletePrefixCallsHook(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	evicted := map[string]bool{}
	store := NewStore(0, WithEvictionHook(func(key string, _ any) {
		mu.Lock()
		evicted[key] = true
		mu.Unlock()
	}))
	ctx := context.Background()

	store.Set(ctx, "tournament:t1:teams", 1)
	store.Set(ctx, "tournament:t1:matches", 2)
	store.Set(ctx, "tournament:t2:teams", 3)
	store.DeletePrefix(ctx, "tournament:t1:")

	if store.Len() != 1 {
		t.Fatalf("expected one remaining entry, got %d", store.Len())
	}
	if !evicted["tournament:t1:teams"] || !evicted["tournament:t1:matches"] || evicted["tournament:t2:teams"] {
		t.Fatalf("unexpected evictions: %v", evicted)
	}

	store.Delete(ctx, "tournament:t2:teams")
	if !evicted["tournament:t2:teams"] {
		t.Fatalf("expected delete to call hook")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_ClearEvictsEverything(t *testing.T) {
	t.Parallel()

	var count atomic.Int32
	store := NewStore(time.Minute, WithEvictionHook(func(string, any) { count.Add(1) }))
	ctx := context.Background()
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.Clear(ctx)

	if store.Len() != 0 || count.Load() != 2 {
		t.Fatalf("expected 2 evictions and empty store, got len=%d evictions=%d", store.Len(), count.Load())
	}
}

func TestStore_GetOrLoad_InvalidationDuringLoadSkipsSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "team:list", func(context.Context) (any, error) {
			close(started)
			<-release
			return "before", nil
		})
		done <- v
	}()
	<-started

	store.DeletePrefix(ctx, "team:")
	v, err := store.GetOrLoad(ctx, "team:list", func(context.Context) (any, error) {
		return "after", nil
	})
	if err != nil || v != "after" {
		t.Fatalf("expected fresh load after invalidation, got %v %v", v, err)
	}

	close(release)
	if got := <-done; got != "before" {
		t.Fatalf("expected in-flight caller to get its own result, got %v", got)
	}

	cached, ok := store.Get(ctx, "team:list")
	if !ok || cached != "after" {
		t.Fatalf("expected cached value after, got %v %v", cached, ok)
	}
}
