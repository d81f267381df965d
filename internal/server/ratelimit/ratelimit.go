// Package ratelimit throttles API clients with per-endpoint token buckets.
// Collaborator-backed endpoints get strict hourly budgets, pure scoring
// endpoints get generous per-minute ones; the tiers live in config.go.
package ratelimit

import (
	"sync"
	"time"
)

// Buckets untouched for this long are evicted by the janitor.
const idleCutoff = time.Hour

// bucket is a single token bucket. It starts full and refills continuously
// at refillRate tokens per second, capped at capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// refillLocked credits tokens for the time elapsed since the last refill.
// Callers must hold b.mu.
func (b *bucket) refillLocked(now time.Time) {
	credited := b.tokens + now.Sub(b.lastRefill).Seconds()*b.refillRate
	b.tokens = min(float64(b.capacity), credited)
	b.lastRefill = now
}

// take consumes one token if available.
func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())
	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// status reports the remaining tokens and when the bucket will be full
// again, without consuming anything.
func (b *bucket) status() (remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refillLocked(now)

	remaining = int(b.tokens)
	deficit := float64(b.capacity) - b.tokens
	if deficit <= 0 {
		return remaining, now
	}
	return remaining, now.Add(time.Duration(deficit / b.refillRate * float64(time.Second)))
}

// Info describes the outcome of a rate limit check. The server translates
// it into X-RateLimit-* response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client, endpoint, and method. A background
// janitor evicts buckets idle past idleCutoff so abandoned clients do not
// accumulate forever.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket

	seenMu   sync.RWMutex
	lastSeen map[string]time.Time

	config     *Config
	janitor    *time.Ticker
	janitorOff chan struct{}
}

// Config holds limiter settings. Whitelisted clients bypass every bucket;
// blacklisted clients are refused outright. Paths without an EndpointConfig
// fall back to DefaultLimit per DefaultWindow.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewLimiter builds a limiter. A nil config enables limiting with the
// engine's standard tiers and a moderate default for unlisted paths.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    defaultReadLimit,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			EndpointConfigs: DefaultEndpointConfigs(),
		}
	}

	l := &Limiter{
		buckets:  make(map[string]*bucket),
		lastSeen: make(map[string]time.Time),
		config:   config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.janitor = time.NewTicker(config.CleanupInterval)
		l.janitorOff = make(chan struct{})
		go l.runJanitor()
	}

	return l
}

// Allow decides whether the client may hit the given path and method now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	tier := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if tier == nil {
		tier = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	// Limit 0 marks an unmetered endpoint, e.g. the health check.
	if tier.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + path + ":" + method
	b := l.bucketFor(key, tier)

	l.seenMu.Lock()
	l.lastSeen[key] = time.Now()
	l.seenMu.Unlock()

	allowed := b.take()
	remaining, resetTime := b.status()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      tier.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// bucketFor returns the bucket for key, creating it from the tier's limit
// and burst on first sight. The write path re-checks under the lock so two
// racing requests share one bucket.
func (l *Limiter) bucketFor(key string, tier *EndpointConfig) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	capacity := tier.Burst
	if capacity <= 0 {
		capacity = tier.Limit
	}
	b = newBucket(capacity, float64(tier.Limit)/tier.Window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.buckets[key]; ok {
		return existing
	}
	l.buckets[key] = b
	return b
}

func (l *Limiter) runJanitor() {
	for {
		select {
		case <-l.janitor.C:
			l.evictIdle()
		case <-l.janitorOff:
			return
		}
	}
}

// evictIdle drops every bucket whose client has been silent past idleCutoff.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-idleCutoff)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.seenMu.Lock()
	defer l.seenMu.Unlock()

	for key, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastSeen, key)
		}
	}
}

// Stop shuts down the janitor goroutine.
func (l *Limiter) Stop() {
	if l.janitor != nil {
		l.janitor.Stop()
	}
	if l.janitorOff != nil {
		close(l.janitorOff)
	}
}
