// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2" //nolint:staticcheck // stored hashes depend on this exact derivation
)

// PBKDF2 parameters. Changing any of them invalidates every stored credential.
const (
	PBKDF2Iterations = 310000
	pbkdf2KeyLen     = 32 // bytes
	saltLen          = 16 // bytes, hex-encoded before use
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// Digest is a hex-encoded salt and derived key pair as stored in the users table.
type Digest struct {
	Salt string
	Hash string
}

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash derives a key for password. An empty salt means a fresh random
	// salt is generated.
	Hash(password, salt string) (Digest, error)

	// Verify checks if the password matches the stored salt and hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on a
	// malformed stored value.
	Verify(password, salt, hash string) (bool, error)
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2-HMAC-SHA256.
type PBKDF2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{iterations: PBKDF2Iterations}
}

// Hash derives the key for password under salt.
func (h *PBKDF2Hasher) Hash(password, salt string) (Digest, error) {
	if password == "" {
		return Digest{}, ErrEmptyPassword
	}

	if salt == "" {
		raw := make([]byte, saltLen)
		if _, err := rand.Read(raw); err != nil {
			return Digest{}, oops.Code("AUTH_SALT_FAILED").Wrap(err)
		}
		salt = hex.EncodeToString(raw)
	}

	// The hex text of the salt is the PBKDF2 salt input, not its decoded bytes.
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, pbkdf2KeyLen, sha256.New)
	return Digest{Salt: salt, Hash: hex.EncodeToString(key)}, nil
}

// Verify recomputes the key and compares it in constant time.
func (h *PBKDF2Hasher) Verify(password, salt, hash string) (bool, error) {
	if salt == "" {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("missing salt")
	}

	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(expected) != pbkdf2KeyLen {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash length: %d", len(expected))
	}

	computed := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, pbkdf2KeyLen, sha256.New)
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
