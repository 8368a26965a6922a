// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"sync"
	"time"
)

// Failure throttling defaults.
const (
	// LockoutDuration is the time an email is locked out after too many failures.
	LockoutDuration = 15 * time.Minute

	// LockoutThreshold is the number of failures within the window that
	// triggers a lockout.
	LockoutThreshold = 7
)

// FailureThrottle counts login failures per email in memory and locks an
// email out once threshold failures land within one window. The window
// equals the lockout duration.
type FailureThrottle struct {
	mu        sync.Mutex
	entries   map[string]*failureEntry
	threshold int
	lockout   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type failureEntry struct {
	failures     int
	firstFailure time.Time
	lockedUntil  time.Time
}

// NewFailureThrottle creates a throttle. A threshold below 1 disables it.
func NewFailureThrottle(threshold int, lockout time.Duration) *FailureThrottle {
	return &FailureThrottle{
		entries:   make(map[string]*failureEntry),
		threshold: threshold,
		lockout:   lockout,
		now:       time.Now,
	}
}

// Check reports whether key is locked out and for how much longer.
func (t *FailureThrottle) Check(key string) (time.Duration, bool) {
	if t == nil || t.threshold < 1 {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return 0, false
	}

	now := t.now()
	if t.stale(e, now) {
		delete(t.entries, key)
		return 0, false
	}
	if !e.lockedUntil.After(now) {
		return 0, false
	}
	return e.lockedUntil.Sub(now), true
}

// RecordFailure counts a failed attempt for key and reports whether this
// attempt started a lockout.
func (t *FailureThrottle) RecordFailure(key string) bool {
	if t == nil || t.threshold < 1 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) >= t.lockout {
		t.sweepLocked(now)
	}

	e, ok := t.entries[key]
	if !ok || t.stale(e, now) {
		e = &failureEntry{firstFailure: now}
		t.entries[key] = e
	}
	e.failures++
	if e.failures < t.threshold {
		return false
	}
	e.lockedUntil = now.Add(t.lockout)
	e.failures = 0
	e.firstFailure = now
	return true
}

// Reset clears the failure history for key after a successful login.
func (t *FailureThrottle) Reset(key string) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Sweep drops entries whose window and lockout have both passed at now and
// reports how many were removed.
func (t *FailureThrottle) Sweep(now time.Time) int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked(now)
}

// Len returns the number of tracked emails.
func (t *FailureThrottle) Len() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *FailureThrottle) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range t.entries {
		if t.stale(e, now) {
			delete(t.entries, key)
			removed++
		}
	}
	t.lastSweep = now
	return removed
}

// stale reports whether e no longer affects key: any lockout has ended and
// the counting window that began at its first failure has closed.
func (t *FailureThrottle) stale(e *failureEntry, now time.Time) bool {
	return !e.lockedUntil.After(now) && now.Sub(e.firstFailure) >= t.lockout
}
