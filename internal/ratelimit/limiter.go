package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/feral-file/ff-smartdial/internal/adapter"
)

const (
	// DEFAULT_IDLE_TTL is how long an unused key keeps its bucket
	DEFAULT_IDLE_TTL = 10 * time.Minute
	// EVICTION_THRESHOLD is the number of tracked keys above which idle buckets are evicted
	EVICTION_THRESHOLD = 1024
)

// Config holds the token bucket settings applied to every key
type Config struct {
	RequestsPerSecond float64
	Burst             int
	IdleTTL           time.Duration
}

// Limiter decides whether a request identified by key may proceed
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Allow consumes a token from the bucket of key and reports whether one was available
	Allow(key string) bool
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter keeps one local token bucket per key
type keyedLimiter struct {
	config  Config
	clock   adapter.Clock
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a limiter with one token bucket per key
func NewLimiter(config Config, clock adapter.Clock) Limiter {
	if config.Burst <= 0 {
		config.Burst = max(1, int(config.RequestsPerSecond))
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = DEFAULT_IDLE_TTL
	}

	return &keyedLimiter{
		config:  config,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

func (l *keyedLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= EVICTION_THRESHOLD {
			l.evictIdle(now)
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

// evictIdle drops the buckets not used within the idle TTL. Caller holds mu.
func (l *keyedLimiter) evictIdle(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.config.IdleTTL {
			delete(l.buckets, key)
		}
	}
}
