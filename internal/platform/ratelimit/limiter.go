package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed hands out one token bucket per key (client address, session).
type Keyed struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewKeyed allows perMinute events per key with the given burst.
// Buckets idle longer than idle are forgotten on the next Allow.
func NewKeyed(perMinute float64, burst int, idle time.Duration) *Keyed {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	return &Keyed{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

func (k *Keyed) Allow(key string) bool {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	for other, v := range k.visitors {
		if now.Sub(v.lastSeen) > k.idle {
			delete(k.visitors, other)
		}
	}

	v, ok := k.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}
