// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const tracerName = "github.com/inkpost/inkpost/internal/auth"

// dummySalt and dummyHash are verified against when an email is unknown so the
// response takes as long as a real mismatch. They match no password.
//
//nolint:gosec // G101: intentionally fake digest for timing equalization, not a credential.
const (
	dummySalt = "00000000000000000000000000000000"
	dummyHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// Service provides authentication operations.
type Service struct {
	credentials CredentialRepository
	sessions    SessionRegistry
	hasher      PasswordHasher
	throttle    *FailureThrottle
	slots       *semaphore.Weighted
	tracer      trace.Tracer
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithThrottle enables per-email failure throttling.
func WithThrottle(t *FailureThrottle) ServiceOption {
	return func(s *Service) {
		s.throttle = t
	}
}

// WithLogger sets the logger used for lockout and seeding events.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHashConcurrency bounds how many key derivations run at once.
// Values below 1 fall back to the number of CPUs.
func WithHashConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		s.slots = semaphore.NewWeighted(int64(n))
	}
}

// NewService creates a new Service.
func NewService(credentials CredentialRepository, sessions SessionRegistry, hasher PasswordHasher, opts ...ServiceOption) (*Service, error) {
	if credentials == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("credential repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("session registry is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}

	s := &Service{
		credentials: credentials,
		sessions:    sessions,
		hasher:      hasher,
		slots:       semaphore.NewWeighted(int64(runtime.NumCPU())),
		tracer:      otel.Tracer(tracerName),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login verifies email and password and issues a session token.
// An unknown email and a wrong password produce the same error, and both run
// a full key derivation.
func (s *Service) Login(ctx context.Context, email, password string) (string, Identity, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	email = NormalizeEmail(email)

	if remaining, locked := s.throttle.Check(email); locked {
		LoginAttempts.WithLabelValues(OutcomeThrottled).Inc()
		return "", Identity{}, oops.Code("AUTH_THROTTLED").
			With("retry_after", remaining.String()).
			Wrap(ErrThrottled)
	}

	cred, lookupErr := s.credentials.GetByEmail(ctx, email)

	salt, hash := dummySalt, dummyHash
	exists := false
	switch {
	case lookupErr == nil:
		salt, hash = cred.PasswordSalt, cred.PasswordHash
		exists = true
	case !errors.Is(lookupErr, ErrNotFound):
		LoginAttempts.WithLabelValues(OutcomeError).Inc()
		span.SetStatus(codes.Error, "credential lookup failed")
		return "", Identity{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get credential by email").
			Wrap(lookupErr)
	}

	valid, err := s.verify(ctx, password, salt, hash)
	if err != nil && (exists || ctx.Err() != nil) {
		LoginAttempts.WithLabelValues(OutcomeError).Inc()
		span.SetStatus(codes.Error, "password verification failed")
		return "", Identity{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}

	if !exists || !valid {
		if s.throttle.RecordFailure(email) {
			s.logger.WarnContext(ctx, "login locked out after repeated failures",
				"email", email,
				"lockout", s.throttle.lockout.String())
		}
		LoginAttempts.WithLabelValues(OutcomeInvalid).Inc()
		return "", Identity{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	s.throttle.Reset(email)

	id := cred.Identity()
	token, err := s.sessions.Issue(ctx, id)
	if err != nil {
		LoginAttempts.WithLabelValues(OutcomeError).Inc()
		span.SetStatus(codes.Error, "session issue failed")
		return "", Identity{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session").
			With("credential_id", id.ID).
			Wrap(err)
	}

	span.SetAttributes(attribute.Int64("credential.id", id.ID))
	LoginAttempts.WithLabelValues(OutcomeSuccess).Inc()
	return token, id, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a session token to its identity.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, bool) {
	return s.sessions.Lookup(ctx, token)
}

// Register creates a credential for email and password.
func (s *Service) Register(ctx context.Context, email, password string) (*Credential, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, oops.Code("AUTH_HASH_UNAVAILABLE").Wrap(err)
	}
	cred, err := NewCredential(email, password, s.hasher)
	s.slots.Release(1)
	if err != nil {
		return nil, err
	}

	if err := s.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create credential").
			With("email", cred.Email).
			Wrap(err)
	}
	return cred, nil
}

// EnsureAdmin creates the admin credential when both email and password are
// set and no credential with that email exists. It reports whether a
// credential was created. Losing an insert race to another process counts as
// already present.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" && password == "" {
		return false, nil
	}
	if email == "" || password == "" {
		return false, oops.Code("ADMIN_SEED_FAILED").Errorf("admin email and password must be set together")
	}

	email = NormalizeEmail(email)
	_, err := s.credentials.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, oops.Code("ADMIN_SEED_FAILED").
			With("operation", "get credential by email").
			Wrap(err)
	}

	if _, err := s.Register(ctx, email, password); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, oops.Code("ADMIN_SEED_FAILED").
			With("operation", "register admin").
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "admin credential seeded", "email", email)
	return true, nil
}

func (s *Service) verify(ctx context.Context, password, salt, hash string) (bool, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return false, oops.Code("AUTH_HASH_UNAVAILABLE").Wrap(err)
	}
	defer s.slots.Release(1)
	return s.hasher.Verify(password, salt, hash)
}
