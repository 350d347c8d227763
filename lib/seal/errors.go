// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import "errors"

var (
	// ErrInvalidKeyLength is returned when key material is not of
	// the required size: exactly KeySize bytes for encryption keys,
	// at least MinMasterKeyLength bytes for derivation master keys.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrAuthenticationFailed is returned when a ciphertext cannot
	// be authenticated. The class is intentionally coarse: a wrong
	// key, wrong associated data, truncation, and a flipped bit in
	// the nonce, ciphertext, or tag all yield this same error, so a
	// caller (or an attacker driving one) cannot distinguish why
	// authentication failed. No partial plaintext is ever returned
	// alongside it.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
