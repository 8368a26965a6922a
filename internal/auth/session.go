// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"
)

// SessionRegistry maps opaque session tokens to identities.
type SessionRegistry interface {
	// Issue mints a new token bound to id.
	Issue(ctx context.Context, id Identity) (string, error)

	// Lookup returns the identity for token. Unknown, revoked and expired
	// tokens report false.
	Lookup(ctx context.Context, token string) (Identity, bool)

	// Revoke removes token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string)
}

// Session is a registry entry.
type Session struct {
	Identity Identity
	IssuedAt time.Time
}

// MemoryRegistry is a SessionRegistry held in process memory.
// It is safe for concurrent use.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session

	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

// RegistryOption configures a MemoryRegistry.
type RegistryOption func(*MemoryRegistry)

// WithTTL expires sessions ttl after issue. Zero keeps sessions until revoked.
func WithTTL(ttl time.Duration) RegistryOption {
	return func(r *MemoryRegistry) {
		r.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *MemoryRegistry) {
		r.now = now
	}
}

// WithTokenSource overrides token generation.
func WithTokenSource(fn func() (string, error)) RegistryOption {
	return func(r *MemoryRegistry) {
		r.newToken = fn
	}
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry(opts ...RegistryOption) *MemoryRegistry {
	r := &MemoryRegistry{
		sessions: make(map[string]Session),
		now:      time.Now,
		newToken: NewSessionToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Issue mints a token for id and stores it.
func (r *MemoryRegistry) Issue(_ context.Context, id Identity) (string, error) {
	token, err := r.newToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[token]; exists {
		return "", oops.Code("SESSION_TOKEN_COLLISION").
			With("identity_id", id.ID).
			Errorf("generated session token already in use")
	}
	r.sessions[token] = Session{Identity: id, IssuedAt: r.now()}
	sessionsActive.Inc()
	return token, nil
}

// Lookup returns the identity bound to token.
func (r *MemoryRegistry) Lookup(_ context.Context, token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return Identity{}, false
	}

	now := r.now()
	if !r.expired(s, now) {
		return s.Identity, true
	}

	r.mu.Lock()
	// Re-check under the write lock; the entry may have been replaced or removed.
	if cur, still := r.sessions[token]; still && r.expired(cur, now) {
		delete(r.sessions, token)
		sessionsActive.Dec()
	}
	r.mu.Unlock()
	return Identity{}, false
}

// Revoke deletes token if present.
func (r *MemoryRegistry) Revoke(_ context.Context, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; ok {
		delete(r.sessions, token)
		sessionsActive.Dec()
	}
}

// Len returns the number of stored sessions, expired or not.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions that have expired at now and reports how many were
// removed. It does nothing when no TTL is configured.
func (r *MemoryRegistry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, token)
			removed++
		}
	}
	sessionsActive.Sub(float64(removed))
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *MemoryRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

func (r *MemoryRegistry) expired(s Session, now time.Time) bool {
	return r.ttl > 0 && !now.Before(s.IssuedAt.Add(r.ttl))
}

var _ SessionRegistry = (*MemoryRegistry)(nil)
