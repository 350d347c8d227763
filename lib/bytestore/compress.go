// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the compression algorithm used for an
// envelope's compressed data. The tag is stored in the envelope so
// extraction is self-describing. These values are protocol
// constants; changing them breaks envelope format compatibility.
type CompressionTag uint8

const (
	// CompressionNone indicates uncompressed data. Selected
	// automatically when the configured algorithm cannot make the
	// payload smaller (already-compressed content, high-entropy
	// bytes, very small payloads).
	CompressionNone CompressionTag = 0

	// CompressionLZ4 indicates LZ4 block compression. Fast with
	// moderate ratios; good when write throughput matters more than
	// stored size.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd indicates zstd compression at the default
	// level. Better ratios for text-like payloads at higher CPU
	// cost. This is the default for new storage instances.
	CompressionZstd CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseCompressionTag parses a compression tag from its string
// representation.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent
// use. The decoder's memory is capped at MaxUncompressedSize so a
// malicious stream can never force an allocation beyond the hard
// cap, regardless of what it claims to expand to.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("bytestore: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(MaxUncompressedSize),
	)
	if err != nil {
		panic("bytestore: zstd decoder initialization failed: " + err.Error())
	}
}

// compress compresses data using the specified algorithm. For
// CompressionNone, returns the input unchanged (no copy). The
// LZ4 and zstd paths return errIncompressible when the output would
// not be smaller than the input; the caller falls back to
// CompressionNone so the envelope roundtrip stays exact.
func compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		return compressLZ4(data)

	case CompressionZstd:
		return compressZstd(data)

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
}

// decompress decompresses data that was compressed with the
// specified algorithm. The uncompressedSize must match the original
// data length exactly; this is verified and a mismatch returns an
// error. Callers must bounds-check uncompressedSize before calling;
// this function allocates a buffer of that size. The returned slice
// never aliases compressed.
func decompress(compressed []byte, tag CompressionTag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed data: size %d does not match declared %d",
				len(compressed), uncompressedSize)
		}
		// Copy so the caller never holds a reference into the
		// envelope's buffer; the LZ4 and zstd paths allocate fresh
		// output already.
		payload := make([]byte, len(compressed))
		copy(payload, compressed)
		return payload, nil

	case CompressionLZ4:
		return decompressLZ4(compressed, uncompressedSize)

	case CompressionZstd:
		return decompressZstd(compressed, uncompressedSize)

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
}

// LZ4 compression: block-mode LZ4.

func compressLZ4(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible. We also check whether the compressed output is
	// actually smaller than the input; if not, compression is not
	// worthwhile.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	// The destination is exactly the declared size; UncompressBlock
	// fails rather than writing past it, so a stream that expands
	// beyond its declaration is rejected without extra allocation.
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// Zstd compression.

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, 0, uncompressedSize)
	result, err := zstdDecoder.DecodeAll(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}

// errIncompressible is returned by compression functions when the
// compressed output is not smaller than the input. The envelope
// builder falls back to CompressionNone.
var errIncompressible = fmt.Errorf("data is incompressible")

// isIncompressible reports whether the error indicates that data
// could not be compressed smaller than its original size.
func isIncompressible(err error) bool {
	return err == errIncompressible
}
