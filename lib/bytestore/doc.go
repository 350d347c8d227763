// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytestore turns arbitrary byte payloads into
// self-describing, integrity-checked, compressed envelopes.
//
// The write path compresses a payload (zstd or LZ4, with automatic
// fallback to no compression for incompressible content), binds it
// to a payload-domain BLAKE3 digest and its exact original size, and
// serializes the resulting [Envelope] with deterministic CBOR. The
// read path reverses each step independently and fails closed: a
// declared size over the hard cap is rejected before any
// decompression buffer is allocated, a malformed stream or length
// mismatch is structural corruption, and a digest mismatch is an
// integrity failure. Every rejection is an ordinary error value;
// no input, however adversarial, causes a panic.
//
// [ByteStorage] is the stable external surface: Store, Retrieve,
// Validate, EstimateCompression, and MaxUncompressedSize. Instances
// are stateless values, safe for unbounded concurrent use.
//
// The envelope's format label is opaque metadata: stored verbatim,
// returned verbatim, never interpreted.
package bytestore
