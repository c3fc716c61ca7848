package rate

import (
	"context"
	"sync"
	"time"
)

// Config defines rate limiting parameters for a venue.
type Config struct {
	RequestsPerSecond int
	Burst             int
}

// Limiter implements a token bucket rate limiter.
type Limiter struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64
	burst  float64
}

// New creates a new limiter.
func New(cfg Config) *Limiter {
	return &Limiter{
		tokens: float64(cfg.Burst),
		last:   time.Now(),
		rate:   float64(cfg.RequestsPerSecond),
		burst:  float64(cfg.Burst),
	}
}

func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.last).Seconds()
	l.last = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}

	if l.tokens >= 1 {
		l.tokens -= 1
		return true
	}
	return false
}

// Wait blocks until a token becomes available or context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Manager holds per-venue limiters. Venues without an explicit override share
// the default config.
type Manager struct {
	mu        sync.RWMutex
	limiters  map[string]*Limiter
	overrides map[string]Config
	defaults  Config
}

func NewManager(defaults Config) *Manager {
	return &Manager{
		limiters:  make(map[string]*Limiter),
		overrides: make(map[string]Config),
		defaults:  defaults,
	}
}

// Configure sets a venue-specific rate config. Must be called before the first
// request for that venue; later calls do not rebuild an existing limiter.
func (m *Manager) Configure(venue string, cfg Config) {
	m.mu.Lock()
	m.overrides[venue] = cfg
	m.mu.Unlock()
}

func (m *Manager) GetLimiter(venue string) *Limiter {
	m.mu.RLock()
	if lim, ok := m.limiters[venue]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if lim, ok := m.limiters[venue]; ok {
		return lim
	}
	cfg := m.defaults
	if override, ok := m.overrides[venue]; ok {
		cfg = override
	}
	lim := New(cfg)
	m.limiters[venue] = lim
	return lim
}

// Wait ensures rate limit compliance for a given venue.
func (m *Manager) Wait(ctx context.Context, venue string) error {
	lim := m.GetLimiter(venue)
	return lim.Wait(ctx)
}
