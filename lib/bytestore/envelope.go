// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import (
	"crypto/subtle"
	"fmt"
)

// MaxUncompressedSize is the hard cap on a payload's uncompressed
// size: 512 MiB. The write path rejects larger payloads, and
// extraction rejects any envelope declaring a larger original size
// before allocating a decompression buffer. This is the load-bearing
// defense against decompression-bomb amplification: worst-case
// allocation is bounded by this cap regardless of how small the
// compressed input is.
const MaxUncompressedSize = 512 * 1024 * 1024

// MaxFormatLength is the maximum byte length of an envelope's format
// label: 10 KiB. This is a resource bound against label abuse, not a
// content validation: any shorter label, including ones with null
// bytes, control characters, or Unicode override characters, is
// stored and returned verbatim.
const MaxFormatLength = 10 * 1024

// Envelope is the self-describing record binding a compressed
// payload to its integrity metadata. An envelope is constructed once
// at write time and immutable thereafter; extraction is a pure
// function of the envelope's fields.
//
// The format label is opaque: it is never parsed, never used as a
// path or command, and has no effect on extraction. Two envelopes
// differing only in Format behave identically under Extract,
// including error outcomes.
type Envelope struct {
	// CompressedData is the configured compressor's output over the
	// original payload. Empty only when the original payload was
	// empty.
	CompressedData []byte

	// Checksum is the payload-domain BLAKE3 digest of the
	// decompressed (original) payload.
	Checksum Checksum

	// OriginalSize is the exact byte length of the original payload
	// before compression.
	OriginalSize uint32

	// Format is the caller's opaque label, stored verbatim.
	Format string

	// Compression identifies the algorithm that produced
	// CompressedData. CompressionNone when the payload was
	// incompressible or empty.
	Compression CompressionTag
}

// NewEnvelope compresses payload with the given algorithm and builds
// an envelope binding the compressed bytes to the payload's digest
// and size. If the algorithm cannot make the payload smaller, the
// envelope falls back to CompressionNone and stores the payload
// verbatim, keeping the roundtrip exact.
//
// Returns ErrPayloadTooLarge when the payload exceeds
// MaxUncompressedSize, and ErrFormatTooLong when the label exceeds
// MaxFormatLength.
func NewEnvelope(payload []byte, format string, tag CompressionTag) (*Envelope, error) {
	if len(payload) > MaxUncompressedSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, cap is %d",
			ErrPayloadTooLarge, len(payload), MaxUncompressedSize)
	}
	if len(format) > MaxFormatLength {
		return nil, fmt.Errorf("%w: label is %d bytes, cap is %d",
			ErrFormatTooLong, len(format), MaxFormatLength)
	}

	compressed, err := compress(payload, tag)
	if err != nil {
		if !isIncompressible(err) {
			return nil, fmt.Errorf("compressing payload: %w", err)
		}
		compressed = payload
		tag = CompressionNone
	}

	// Copy so the envelope does not alias caller-owned memory. For
	// the CompressionNone fallback, compressed IS the caller's
	// payload slice; an envelope must be immutable after
	// construction.
	owned := make([]byte, len(compressed))
	copy(owned, compressed)

	return &Envelope{
		CompressedData: owned,
		Checksum:       checksumPayload(payload),
		OriginalSize:   uint32(len(payload)),
		Format:         format,
		Compression:    tag,
	}, nil
}

// Extract validates the envelope and returns the original payload.
// Checks run in strict order, short-circuiting on the first failure:
//
//  1. Declared size against MaxUncompressedSize →
//     ErrSizeLimitExceeded, before CompressedData is touched.
//  2. Decompression → ErrDecompressionFailed, wrapping the codec
//     diagnostic.
//  3. Decompressed length against declared size →
//     ErrDecompressionFailed.
//  4. Payload digest against Checksum → ErrChecksumMismatch.
//
// No check weakens after a failure and no partial payload is ever
// returned.
func (e *Envelope) Extract() ([]byte, error) {
	if e.OriginalSize > MaxUncompressedSize {
		return nil, fmt.Errorf("%w: envelope declares %d bytes, cap is %d",
			ErrSizeLimitExceeded, e.OriginalSize, MaxUncompressedSize)
	}

	payload, err := decompress(e.CompressedData, e.Compression, int(e.OriginalSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailed, err)
	}

	// Constant-time comparison is not required here (the checksum
	// guards data integrity, not a secret) but subtle costs nothing
	// on 32 bytes.
	digest := checksumPayload(payload)
	if subtle.ConstantTimeCompare(digest[:], e.Checksum[:]) != 1 {
		return nil, fmt.Errorf("%w: payload digest disagrees with stored checksum", ErrChecksumMismatch)
	}

	return payload, nil
}
