package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AnalyzeTierBurstThenDeny(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	// /v1/analyze allows a burst of 5 against an hourly budget of 30.
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("203.0.113.7", "/v1/analyze", "POST")
		require.True(t, allowed, "request %d should fit in the burst", i+1)
		assert.Equal(t, 30, info.Limit)
	}

	allowed, info := limiter.Allow("203.0.113.7", "/v1/analyze", "POST")
	assert.False(t, allowed, "burst exhausted, hourly refill is far away")
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_BatchTierIsTightest(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("198.51.100.2", "/v1/batch", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("198.51.100.2", "/v1/batch", "POST")
	require.True(t, allowed)

	allowed, info := limiter.Allow("198.51.100.2", "/v1/batch", "POST")
	assert.False(t, allowed, "batch runs burst at 2")
	assert.Equal(t, 10, info.Limit)
}

func TestLimiter_ScoringTierRemainingCountsDown(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("198.51.100.9", "/v1/score", "POST")
		require.True(t, allowed)
		assert.Equal(t, 300, info.Limit)
		assert.Equal(t, 29-i, info.Remaining, "burst capacity drains one per request")
	}
}

func TestLimiter_RefillRestoresTokens(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/v1/score", Method: "POST", Limit: 10, Window: time.Second, Burst: 2},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client", "/v1/score", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client", "/v1/score", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client", "/v1/score", "POST")
	require.False(t, allowed, "burst of 2 is spent")

	// 10 tokens/second: a quarter second credits comfortably more than one.
	time.Sleep(250 * time.Millisecond)

	allowed, _ = limiter.Allow("client", "/v1/score", "POST")
	assert.True(t, allowed, "refill should have restored a token")
}

func TestLimiter_ClientsGetIndependentBuckets(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("first", "/v1/analyze", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("first", "/v1/analyze", "POST")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("second", "/v1/analyze", "POST")
	assert.True(t, allowed, "one client's exhaustion must not throttle another")
}

func TestLimiter_ExhaustedTierDoesNotBlockOtherEndpoints(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("client", "/v1/analyze", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("client", "/v1/analyze", "POST")
	require.False(t, allowed)

	allowed, info := limiter.Allow("client", "/v1/score", "POST")
	assert.True(t, allowed, "scoring has its own bucket")
	assert.Equal(t, 300, info.Limit)
}

func TestLimiter_HealthIsUnmetered(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("probe", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_UnlistedPathUsesDefaultTier(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  3,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("client", "/v1/runs", "GET")
		require.True(t, allowed)
		assert.Equal(t, 3, info.Limit)
	}
	allowed, _ := limiter.Allow("client", "/v1/runs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/v1/analyze", "POST")
		require.True(t, allowed, "whitelisted clients bypass every bucket")
		assert.True(t, info.Allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.0.2.66": true},
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("192.0.2.66", "/v1/score", "POST")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("anyone", "/v1/batch", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_ConcurrentRequestsShareOneBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			// Hourly window keeps refill negligible during the test.
			{Path: "/v1/batch", Method: "POST", Limit: 25, Window: time.Hour, Burst: 25},
		},
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("client", "/v1/batch", "POST"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, allowedCount, "racing requests must drain exactly one bucket")
}

func TestLimiter_EvictIdleDropsStaleBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("stale", "/v1/score", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("fresh", "/v1/score", "POST")
	require.True(t, allowed)

	// Age one client past the idle cutoff, then sweep.
	limiter.seenMu.Lock()
	limiter.lastSeen["stale:/v1/score:POST"] = time.Now().Add(-2 * idleCutoff)
	limiter.seenMu.Unlock()

	limiter.evictIdle()

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	assert.NotContains(t, limiter.buckets, "stale:/v1/score:POST")
	assert.Contains(t, limiter.buckets, "fresh:/v1/score:POST")
}

func TestNewLimiter_NilConfigUsesEngineTiers(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	require.True(t, limiter.config.Enabled)
	assert.Equal(t, defaultReadLimit, limiter.config.DefaultLimit)

	tier := MatchEndpoint("/v1/analyze", "POST", limiter.config.EndpointConfigs)
	require.NotNil(t, tier)
	assert.Equal(t, time.Hour, tier.Window)
}
