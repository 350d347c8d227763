// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import (
	"fmt"

	"github.com/bytevault/bytevault/lib/codec"
)

// DefaultFormat is the format label applied by StoreDefault when the
// storage has no configured default.
const DefaultFormat = "bytes"

// Options configures a ByteStorage. The zero value is valid: a
// 512 MiB cap, zstd compression, and the "bytes" default format.
type Options struct {
	// MaxUncompressedSize caps payload size on the write path and
	// declared size on the read path. Zero means
	// MaxUncompressedSize (512 MiB). Values above the package cap
	// are rejected by New: the package cap bounds worst-case
	// decompression allocation and a per-instance setting must not
	// weaken it.
	MaxUncompressedSize int

	// Compression selects the compressor for new envelopes.
	// Zero value (CompressionNone) means zstd; pass
	// CompressionNone explicitly via NoCompression to disable.
	Compression CompressionTag

	// NoCompression disables compression entirely: payloads are
	// stored verbatim under CompressionNone.
	NoCompression bool

	// DefaultFormat is the label applied by StoreDefault. Empty
	// means DefaultFormat ("bytes"). It has no effect on Store,
	// which records the caller's label verbatim.
	DefaultFormat string
}

// ByteStorage is the envelope store/retrieve orchestrator. It is a
// stateless value type: every method's output depends only on its
// explicit arguments and the immutable configuration, so a single
// instance is safe for unbounded concurrent use without locking.
type ByteStorage struct {
	maxUncompressedSize int
	compression         CompressionTag
	defaultFormat       string
}

// New creates a ByteStorage from options. See Options for zero-value
// defaults.
func New(options Options) (*ByteStorage, error) {
	maxSize := options.MaxUncompressedSize
	if maxSize == 0 {
		maxSize = MaxUncompressedSize
	}
	if maxSize < 0 || maxSize > MaxUncompressedSize {
		return nil, fmt.Errorf("max uncompressed size %d is outside (0, %d]",
			maxSize, MaxUncompressedSize)
	}

	compression := options.Compression
	if compression == CompressionNone && !options.NoCompression {
		compression = CompressionZstd
	}
	if options.NoCompression {
		compression = CompressionNone
	}
	switch compression {
	case CompressionNone, CompressionLZ4, CompressionZstd:
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(compression))
	}

	defaultFormat := options.DefaultFormat
	if defaultFormat == "" {
		defaultFormat = DefaultFormat
	}

	return &ByteStorage{
		maxUncompressedSize: maxSize,
		compression:         compression,
		defaultFormat:       defaultFormat,
	}, nil
}

// Store compresses payload into an envelope and serializes it with
// deterministic CBOR. The format label is recorded verbatim,
// including the empty string; callers that want the storage's
// default label use StoreDefault. Returns ErrPayloadTooLarge,
// ErrFormatTooLong, or ErrEncodingFailed.
func (s *ByteStorage) Store(payload []byte, format string) ([]byte, error) {
	if len(payload) > s.maxUncompressedSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, cap is %d",
			ErrPayloadTooLarge, len(payload), s.maxUncompressedSize)
	}

	envelope, err := NewEnvelope(payload, format, s.compression)
	if err != nil {
		return nil, err
	}

	serialized, err := marshalEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return serialized, nil
}

// StoreDefault stores payload under the storage's configured default
// format label. It exists because Store treats every label,
// including the empty string, as a distinct verbatim value; asking
// for the default has to be a separate call rather than a reserved
// label.
func (s *ByteStorage) StoreDefault(payload []byte) ([]byte, error) {
	return s.Store(payload, s.defaultFormat)
}

// Retrieve deserializes an envelope and extracts its payload,
// returning the payload and the stored format label. Arbitrary
// garbage input returns ErrDecodingFailed; extraction errors
// (ErrSizeLimitExceeded, ErrDecompressionFailed,
// ErrChecksumMismatch) propagate unchanged.
func (s *ByteStorage) Retrieve(serialized []byte) ([]byte, string, error) {
	envelope, err := unmarshalEnvelope(serialized)
	if err != nil {
		return nil, "", err
	}

	if int64(envelope.OriginalSize) > int64(s.maxUncompressedSize) {
		return nil, "", fmt.Errorf("%w: envelope declares %d bytes, cap is %d",
			ErrSizeLimitExceeded, envelope.OriginalSize, s.maxUncompressedSize)
	}

	payload, err := envelope.Extract()
	if err != nil {
		return nil, "", err
	}
	return payload, envelope.Format, nil
}

// Validate reports whether Retrieve would succeed on the given
// bytes. It is exactly Retrieve with the output discarded, not a
// weaker check, so a caller that trusts true and then calls
// Retrieve always succeeds. Never panics, including on garbage.
func (s *ByteStorage) Validate(serialized []byte) bool {
	_, _, err := s.Retrieve(serialized)
	return err == nil
}

// MaxUncompressedSize returns the configured cap on uncompressed
// payload size, so callers can pre-filter oversized writes.
func (s *ByteStorage) MaxUncompressedSize() int {
	return s.maxUncompressedSize
}

// envelopeWire is the serialized form of an Envelope. The checksum
// travels as a plain byte string and is length-checked on decode:
// relying on the CBOR layer's array semantics would make the
// rejection of short digests an implementation detail instead of an
// explicit contract.
type envelopeWire struct {
	CompressedData []byte `cbor:"compressed_data"`
	Checksum       []byte `cbor:"checksum"`
	OriginalSize   uint32 `cbor:"original_size"`
	Format         string `cbor:"format"`
	Compression    uint8  `cbor:"compression"`
}

// marshalEnvelope encodes an envelope with deterministic CBOR.
func marshalEnvelope(envelope *Envelope) ([]byte, error) {
	return codec.Marshal(envelopeWire{
		CompressedData: envelope.CompressedData,
		Checksum:       envelope.Checksum[:],
		OriginalSize:   envelope.OriginalSize,
		Format:         envelope.Format,
		Compression:    uint8(envelope.Compression),
	})
}

// unmarshalEnvelope decodes serialized envelope bytes, returning
// ErrDecodingFailed for anything that is not a structurally valid
// envelope. It never panics regardless of input.
func unmarshalEnvelope(serialized []byte) (*Envelope, error) {
	var wire envelopeWire
	if err := codec.Unmarshal(serialized, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	if len(wire.Checksum) != len(Checksum{}) {
		return nil, fmt.Errorf("%w: checksum is %d bytes, want %d",
			ErrDecodingFailed, len(wire.Checksum), len(Checksum{}))
	}
	if len(wire.Format) > MaxFormatLength {
		return nil, fmt.Errorf("%w: format label is %d bytes, cap is %d",
			ErrDecodingFailed, len(wire.Format), MaxFormatLength)
	}

	envelope := &Envelope{
		CompressedData: wire.CompressedData,
		OriginalSize:   wire.OriginalSize,
		Format:         wire.Format,
		Compression:    CompressionTag(wire.Compression),
	}
	copy(envelope.Checksum[:], wire.Checksum)
	return envelope, nil
}
