// Package ratelimit throttles API clients with per-endpoint token buckets.
// Every client/endpoint/method triple owns one bucket; tokens refill
// continuously at limit-per-window and the bucket never holds more than the
// burst capacity.
package ratelimit

import (
	"sync"
	"time"
)

// bucketTTL is how long an untouched bucket survives before the sweeper
// drops it.
const bucketTTL = time.Hour

// bucket is one client's token budget for one endpoint. level is fractional
// so refill stays smooth between whole tokens; lastSeen feeds the idle sweep.
type bucket struct {
	mu        sync.Mutex
	capacity  float64
	perSecond float64
	level     float64
	updatedAt time.Time
	lastSeen  time.Time
}

func newBucket(capacity int, perSecond float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity:  float64(capacity),
		perSecond: perSecond,
		level:     float64(capacity),
		updatedAt: now,
		lastSeen:  now,
	}
}

// take refills the bucket for the elapsed time, consumes one token when one
// is available, and reports the post-take whole-token level plus the instant
// the bucket will be full again.
func (b *bucket) take() (allowed bool, remaining int, fullAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.level = min(b.capacity, b.level+now.Sub(b.updatedAt).Seconds()*b.perSecond)
	b.updatedAt = now
	b.lastSeen = now

	if b.level >= 1 {
		b.level--
		allowed = true
	}

	fullAt = now
	if b.level < b.capacity {
		fullAt = now.Add(time.Duration((b.capacity - b.level) / b.perSecond * float64(time.Second)))
	}
	return allowed, int(b.level), fullAt
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Config holds the limiter switches: the global default budget, the
// per-endpoint tiers, the idle-bucket sweep cadence, and the IP allow/deny
// lists.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Info is the rate-limit outcome for one request, exposed to clients through
// the X-RateLimit-* headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter answers allow/deny per request and owns the bucket table.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     *Config
	ticker  *time.Ticker
	done    chan struct{}
}

// NewLimiter builds a limiter. A nil config enables limiting with the
// defaults of LoadConfig; the idle sweeper starts only when limiting is on
// and a cleanup interval is set.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.ticker = time.NewTicker(cfg.CleanupInterval)
		l.done = make(chan struct{})
		go l.sweep()
	}
	return l
}

// Allow decides whether clientID may hit endpoint with method right now.
// Whitelisted clients always pass and blacklisted clients never do; both
// short-circuit with a zero Limit so no headers are emitted for them.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{Allowed: true}
	}
	if l.cfg.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blacklist[clientID] {
		return false, Info{}
	}

	ec := MatchEndpoint(endpoint, method, l.cfg.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{
			Limit:  l.cfg.DefaultLimit,
			Window: l.cfg.DefaultWindow,
			Burst:  l.cfg.DefaultLimit,
		}
	}
	if ec.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	b := l.bucket(clientID+"|"+endpoint+"|"+method, ec)
	allowed, remaining, fullAt := b.take()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(fullAt); retryAfter < 0 {
			retryAfter = 0
		}
	}
	return allowed, Info{
		Allowed:    allowed,
		Limit:      ec.Limit,
		Remaining:  remaining,
		ResetTime:  fullAt,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucket(key string, ec *EndpointConfig) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := ec.Burst
		if burst <= 0 {
			burst = ec.Limit
		}
		b = newBucket(burst, float64(ec.Limit)/ec.Window.Seconds())
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) sweep() {
	for {
		select {
		case <-l.ticker.C:
			l.dropIdle(time.Now().Add(-bucketTTL))
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the background sweep. Safe to call when the sweeper never
// started.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
	if l.done != nil {
		close(l.done)
	}
}
