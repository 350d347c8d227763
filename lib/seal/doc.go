// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

// Package seal provides authenticated encryption with
// domain-separated key derivation for envelope storage.
//
// [Encryptor] is a stateless value type: every cryptographic input
// is an explicit argument and no key material is retained between
// calls. Ciphertexts have the fixed layout nonce(12) ‖ ciphertext ‖
// tag(16), minimum 28 bytes, using ChaCha20-Poly1305 with a fresh
// random nonce per call. Every authentication failure (tamper,
// truncation, wrong key, wrong associated data) collapses into the
// single [ErrAuthenticationFailed] class so no oracle distinguishes
// the cause.
//
// [DeriveDomainKey] is deterministic HKDF-SHA256 derivation keyed by
// (master key, domain label, tenant salt): one master secret serves
// many tenants and purposes with no cross-tenant leakage.
//
// [SealedStorage] composes the two layers with lib/bytestore:
// serialized envelope bytes become plaintext, the caller's
// associated data binds context the envelope does not carry, and
// each layer's errors propagate untranslated.
package seal
