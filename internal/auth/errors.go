// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when a credential with the same email already exists.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is the single failure reported for an unknown email or
// a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrThrottled is returned while an email is locked out after repeated failures.
var ErrThrottled = errors.New("too many failed attempts")
