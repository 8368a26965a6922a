// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/samber/oops"
)

// sessionTokenBytes is the entropy of a session token before hex encoding.
const sessionTokenBytes = 24

// NewSessionToken returns a fresh 48-character hex session token.
func NewSessionToken() (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "read random bytes").
			Wrap(err)
	}
	return hex.EncodeToString(raw), nil
}
