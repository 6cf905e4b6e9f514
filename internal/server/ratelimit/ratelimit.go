// Package ratelimit provides per-client request throttling using token
// buckets.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

type bucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() (bool, int, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now

	allowed := b.tokens >= 1.0
	if allowed {
		b.tokens -= 1.0
	}

	reset := now
	if b.tokens < float64(b.capacity) {
		secondsUntilFull := (float64(b.capacity) - b.tokens) / b.refillRate
		reset = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

// Info reports the limit state attached to rate-limit response headers.
type Info struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// Config holds limiter settings.
type Config struct {
	Enabled bool
	// Limit is the bucket capacity per client per window.
	Limit  int
	Window time.Duration
	// AILimit caps the model-backed endpoints separately; they are slow
	// and metered upstream.
	AILimit         int
	CleanupInterval time.Duration
}

// LoadConfig reads limiter settings from the environment with defaults
// suitable for a single-user deployment.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:         true,
		Limit:           120,
		Window:          time.Minute,
		AILimit:         20,
		CleanupInterval: 5 * time.Minute,
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.Enabled = v != "false" && v != "0"
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && v > 0 {
		cfg.Limit = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_AI_REQUESTS")); err == nil && v > 0 {
		cfg.AILimit = v
	}
	return cfg
}

// Limiter tracks a token bucket per client, with a stricter bucket for AI
// endpoints.
type Limiter struct {
	config     *Config
	buckets    map[string]*bucket
	lastAccess map[string]time.Time
	mu         sync.Mutex
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		config:     config,
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
		stop:       make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may proceed. AI endpoints draw from a
// separate, smaller bucket.
func (l *Limiter) Allow(clientID string, ai bool) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{}
	}

	limit := l.config.Limit
	key := clientID
	if ai {
		limit = l.config.AILimit
		key = clientID + "|ai"
	}

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(limit, float64(limit)/l.config.Window.Seconds())
		l.buckets[key] = b
	}
	l.lastAccess[key] = time.Now()
	l.mu.Unlock()

	allowed, remaining, reset := b.allow()
	return allowed, Info{Limit: limit, Remaining: remaining, ResetTime: reset}
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	interval := l.config.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * interval)
			l.mu.Lock()
			for key, last := range l.lastAccess {
				if last.Before(cutoff) {
					delete(l.buckets, key)
					delete(l.lastAccess, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
