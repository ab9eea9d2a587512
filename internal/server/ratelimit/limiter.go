// Package ratelimit tracks recent authentication failures per identifier
// and blocks further attempts once a threshold is reached.
//
// The tracker is memory-resident and per-process: it does not survive
// restarts and is not shared between instances, so it is best-effort
// protection against brute force, not a distributed guarantee. Production
// deployments behind multiple instances need an external shared store.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	failures    int
	lastFailure time.Time
}

// Limiter is safe for concurrent use by multiple authentication workflows.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxAttempts int
	lockout     time.Duration

	now func() time.Time // overridable in tests
}

// New returns a Limiter that blocks an identifier after maxAttempts
// recorded failures until lockout has elapsed since the last failure.
func New(maxAttempts int, lockout time.Duration) *Limiter {
	return &Limiter{
		entries:     make(map[string]*entry),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// Allow reports whether an attempt for the identifier may proceed. An entry
// whose lockout window has elapsed is discarded on the spot (lazy reset, no
// background sweeping), regardless of its failure count.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok {
		return true
	}

	if l.now().Sub(e.lastFailure) > l.lockout {
		delete(l.entries, identifier)
		return true
	}

	return e.failures < l.maxAttempts
}

// RecordFailure increments the failure count for the identifier and stamps
// the failure time, creating the entry if absent.
func (l *Limiter) RecordFailure(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok {
		e = &entry{}
		l.entries[identifier] = e
	}
	e.failures++
	e.lastFailure = l.now()
}

// Clear removes the entry for the identifier. Called on any successful
// authentication.
func (l *Limiter) Clear(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, identifier)
}
