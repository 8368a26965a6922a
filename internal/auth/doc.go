// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package auth provides credential hashing, server-side sessions and the
// login service for Inkpost.
//
// # Domain Types
//
//   - Credential - a stored email with its PBKDF2 salt and hash
//   - Identity - the {id, email} value carried by a session
//
// Credentials should be created with NewCredential so the email is normalized
// and the password hashed before a repository sees them.
//
// # Sessions
//
// MemoryRegistry keeps sessions in process memory. It is owned by whoever
// constructs it and injected into the Service and the HTTP layer; there is no
// package-level session state. Sessions do not survive a restart.
//
// # Services
//
// Service coordinates login, logout, registration and admin seeding. It is
// created with NewService, which validates its dependencies.
package auth
