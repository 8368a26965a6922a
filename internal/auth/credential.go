// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Identity is the value attached to a session and to authenticated requests.
type Identity struct {
	ID    int64
	Email string
}

// Credential is a stored login.
type Credential struct {
	ID           int64
	Email        string
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}

// Identity returns the session-facing view of the credential.
func (c *Credential) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email}
}

// CredentialRepository persists credentials.
type CredentialRepository interface {
	// GetByEmail returns ErrNotFound (wrapped) when no credential matches.
	GetByEmail(ctx context.Context, email string) (*Credential, error)

	// Create inserts the credential and fills in ID and CreatedAt.
	// Returns ErrEmailTaken (wrapped) on a duplicate email.
	Create(ctx context.Context, cred *Credential) error
}

// NormalizeEmail trims surrounding space and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs a minimal shape check on a normalized address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return oops.Code("AUTH_INVALID_EMAIL").With("email", email).Errorf("email must contain a local part and a domain")
	}
	if len(email) > 254 {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email exceeds 254 characters")
	}
	return nil
}

// NewCredential normalizes email and hashes password into a new Credential.
// ID and CreatedAt are assigned by the repository.
func NewCredential(email, password string, hasher PasswordHasher) (*Credential, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	digest, err := hasher.Hash(password, "")
	if err != nil {
		return nil, err
	}

	return &Credential{
		Email:        email,
		PasswordHash: digest.Hash,
		PasswordSalt: digest.Salt,
	}, nil
}
