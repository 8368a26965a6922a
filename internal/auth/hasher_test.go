// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2" //nolint:staticcheck // reference derivation

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

func TestHashPassword(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("generates a 16-byte hex salt and 32-byte hex hash", func(t *testing.T) {
		d, err := hasher.Hash("password123", "")
		require.NoError(t, err)
		assert.Len(t, d.Salt, 32)
		assert.Len(t, d.Hash, 64)
		_, err = hex.DecodeString(d.Salt)
		assert.NoError(t, err)
	})

	t.Run("is deterministic for a given salt", func(t *testing.T) {
		d1, err := hasher.Hash("password123", "abcd")
		require.NoError(t, err)
		d2, err := hasher.Hash("password123", "abcd")
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
		assert.Equal(t, "abcd", d1.Salt)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		d1, err := hasher.Hash("samepassword", "")
		require.NoError(t, err)
		d2, err := hasher.Hash("samepassword", "")
		require.NoError(t, err)
		assert.NotEqual(t, d1.Salt, d2.Salt)
		assert.NotEqual(t, d1.Hash, d2.Hash)
	})

	t.Run("uses the hex salt text as PBKDF2 input", func(t *testing.T) {
		salt := "00112233445566778899aabbccddeeff"
		want := pbkdf2.Key([]byte("pw"), []byte(salt), auth.PBKDF2Iterations, 32, sha256.New)

		d, err := hasher.Hash("pw", salt)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(want), d.Hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()
	d, err := hasher.Hash("correctpassword", "")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		ok, err := hasher.Verify("correctpassword", d.Salt, d.Hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		ok, err := hasher.Verify("wrongpassword", d.Salt, d.Hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different salt fails", func(t *testing.T) {
		ok, err := hasher.Verify("correctpassword", "ffff", d.Hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-hex hash returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", d.Salt, "not-hex")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("short hash returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", d.Salt, "abcd")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hash length")
	})

	t.Run("missing salt returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "", d.Hash)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})
}

func TestNewSessionToken(t *testing.T) {
	t.Run("is 48 hex characters", func(t *testing.T) {
		tok, err := auth.NewSessionToken()
		require.NoError(t, err)
		assert.Len(t, tok, 48)
		raw, err := hex.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, raw, 24)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			tok, err := auth.NewSessionToken()
			require.NoError(t, err)
			_, dup := seen[tok]
			require.False(t, dup, "duplicate token %s", tok)
			seen[tok] = struct{}{}
		}
	})
}
