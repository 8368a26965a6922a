// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package postgres implements auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
)

// Querier is the subset of pgxpool.Pool the repositories use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository implements auth.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	db Querier
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db Querier) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByEmail retrieves a credential by its normalized email. Stored emails
// are compared lower-cased so rows written before normalization still match.
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	var c auth.Credential
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, password_salt, created_at
		FROM users
		WHERE lower(email) = $1
	`, email).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.PasswordSalt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_QUERY_FAILED").
			With("operation", "select credential").
			With("email", email).
			Wrap(err)
	}
	return &c, nil
}

// Create inserts cred and sets its ID and CreatedAt.
func (r *CredentialRepository) Create(ctx context.Context, cred *auth.Credential) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, password_salt)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, cred.Email, cred.PasswordHash, cred.PasswordSalt).Scan(&cred.ID, &cred.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CREDENTIAL_EMAIL_TAKEN").With("email", cred.Email).Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("CREDENTIAL_CREATE_FAILED").
			With("operation", "insert credential").
			With("email", cred.Email).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.CredentialRepository = (*CredentialRepository)(nil)
