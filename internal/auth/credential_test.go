// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/auth/mocks"
	"github.com/inkpost/inkpost/pkg/errutil"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@example.com", auth.NormalizeEmail("  Admin@Example.COM \n"))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"a@b.c", false},
		{"", true},
		{"no-at-sign", true},
		{"@example.com", true},
		{"user@", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := auth.ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_EMAIL")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewCredential(t *testing.T) {
	t.Run("normalizes and hashes", func(t *testing.T) {
		hasher := mocks.NewMockPasswordHasher(t)
		hasher.On("Hash", "secret", "").Return(auth.Digest{Salt: "s", Hash: "h"}, nil)

		cred, err := auth.NewCredential(" Bob@Example.com ", "secret", hasher)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", cred.Email)
		assert.Equal(t, "s", cred.PasswordSalt)
		assert.Equal(t, "h", cred.PasswordHash)
		assert.Zero(t, cred.ID)
	})

	t.Run("invalid email skips hashing", func(t *testing.T) {
		hasher := mocks.NewMockPasswordHasher(t)
		_, err := auth.NewCredential("nope", "secret", hasher)
		require.Error(t, err)
	})

	t.Run("hash error propagates", func(t *testing.T) {
		hasher := mocks.NewMockPasswordHasher(t)
		hasher.On("Hash", "", "").Return(auth.Digest{}, auth.ErrEmptyPassword)
		_, err := auth.NewCredential("a@b.c", "", hasher)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestIdentityContext(t *testing.T) {
	_, ok := auth.IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{ID: 3, Email: "c@d.e"})
	id, ok := auth.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), id.ID)
}
