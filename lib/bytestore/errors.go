// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import "errors"

// Error classes returned by the envelope codec and storage
// orchestrator. All are ordinary error values matched with
// [errors.Is]; no input, however malformed, causes a panic.
//
// The codec fails closed: every class is a rejection, and no partial
// or unverified payload is ever returned alongside one.
var (
	// ErrPayloadTooLarge is returned by the write path when the
	// payload exceeds the configured uncompressed size cap.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum uncompressed size")

	// ErrFormatTooLong is returned when the format label exceeds
	// MaxFormatLength. This is a resource bound, not a content rule:
	// any shorter label is accepted verbatim.
	ErrFormatTooLong = errors.New("format label exceeds maximum length")

	// ErrSizeLimitExceeded is returned by extraction when an
	// envelope's declared original size exceeds the uncompressed
	// size cap. This is a security violation check: it runs before
	// any decompression buffer is allocated, so a tiny compressed
	// blob claiming an enormous original size cannot force an
	// allocation.
	ErrSizeLimitExceeded = errors.New("security violation: declared size exceeds maximum uncompressed size")

	// ErrDecompressionFailed is returned when the compressed stream
	// is malformed or the decompressed length disagrees with the
	// envelope's declared original size. The declared size is
	// untrusted metadata, so a length mismatch is structural
	// corruption, not an integrity failure.
	ErrDecompressionFailed = errors.New("decompression failed")

	// ErrChecksumMismatch is returned when the decompressed payload's
	// digest disagrees with the envelope checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrEncodingFailed is returned when envelope serialization
	// fails.
	ErrEncodingFailed = errors.New("envelope encoding failed")

	// ErrDecodingFailed is returned when envelope deserialization
	// fails. This covers arbitrary garbage input: anything that is
	// not a well-formed serialized envelope.
	ErrDecodingFailed = errors.New("envelope decoding failed")
)
