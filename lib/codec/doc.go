// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration
// shared by every Bytevault wire format.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes, which is
// what makes envelope serialization byte-stable: two Store calls
// with the same payload and format produce the same envelope bytes.
//
// The decoder accepts standard CBOR and is safe on fully adversarial
// input: structurally invalid bytes return an error, never a panic.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// This package exists so that every package encodes identically
// without duplicating configuration; consumers never import
// fxamacker/cbor directly.
package codec
