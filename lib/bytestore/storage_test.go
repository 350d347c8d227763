// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/bytevault/bytevault/lib/codec"
)

func testStorage(t *testing.T) *ByteStorage {
	t.Helper()
	storage, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return storage
}

func TestStoreRetrieveRoundtrip(t *testing.T) {
	storage := testStorage(t)

	payloads := map[string][]byte{
		"empty":          {},
		"single byte":    {0x42},
		"text":           []byte("the quick brown fox jumps over the lazy dog"),
		"compressible":   compressibleData(32 * 1024),
		"high entropy":   make([]byte, 8*1024),
		"all zero bytes": make([]byte, 4*1024),
	}
	if _, err := rand.Read(payloads["high entropy"]); err != nil {
		t.Fatal(err)
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			serialized, err := storage.Store(payload, "msgpack")
			if err != nil {
				t.Fatalf("Store failed: %v", err)
			}

			retrieved, format, err := storage.Retrieve(serialized)
			if err != nil {
				t.Fatalf("Retrieve failed: %v", err)
			}
			if !bytes.Equal(retrieved, payload) {
				t.Error("retrieved payload differs from original")
			}
			if format != "msgpack" {
				t.Errorf("format = %q, want %q", format, "msgpack")
			}
		})
	}
}

func TestStoreDefaultFormat(t *testing.T) {
	storage, err := New(Options{DefaultFormat: "cbor"})
	if err != nil {
		t.Fatal(err)
	}

	serialized, err := storage.StoreDefault([]byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	_, format, err := storage.Retrieve(serialized)
	if err != nil {
		t.Fatal(err)
	}
	if format != "cbor" {
		t.Errorf("format = %q, want configured default %q", format, "cbor")
	}

	// Without a configured default, the package default applies.
	serialized, err = testStorage(t).StoreDefault([]byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	_, format, err = testStorage(t).Retrieve(serialized)
	if err != nil {
		t.Fatal(err)
	}
	if format != DefaultFormat {
		t.Errorf("format = %q, want %q", format, DefaultFormat)
	}
}

func TestStoreEmptyFormatVerbatim(t *testing.T) {
	// An empty label is a label like any other, not a request for
	// the default. Only StoreDefault applies the configured default.
	storage, err := New(Options{DefaultFormat: "cbor"})
	if err != nil {
		t.Fatal(err)
	}

	serialized, err := storage.Store([]byte("data"), "")
	if err != nil {
		t.Fatal(err)
	}
	_, format, err := storage.Retrieve(serialized)
	if err != nil {
		t.Fatal(err)
	}
	if format != "" {
		t.Errorf("format = %q, want empty string exactly", format)
	}
}

func TestStoreFormatOpaque(t *testing.T) {
	storage := testStorage(t)
	payload := []byte("payload")

	formats := []string{
		"",
		"../../../etc/passwd",
		"fmt\x00null",
		"fmt\nCRLF\r",
		"\u202eRTL",
		"\ufeffBOM",
		string(make([]byte, MaxFormatLength)),
	}

	for _, format := range formats {
		serialized, err := storage.Store(payload, format)
		if err != nil {
			t.Errorf("Store rejected opaque format %q: %v", format, err)
			continue
		}
		retrieved, got, err := storage.Retrieve(serialized)
		if err != nil {
			t.Errorf("Retrieve failed for format %q: %v", format, err)
			continue
		}
		if got != format {
			t.Errorf("format not returned verbatim: got %q, want %q", got, format)
		}
		if !bytes.Equal(retrieved, payload) {
			t.Errorf("payload corrupted under format %q", format)
		}
	}
}

func TestStoreFormatTooLong(t *testing.T) {
	storage := testStorage(t)

	_, err := storage.Store([]byte("data"), string(make([]byte, MaxFormatLength+1)))
	if !errors.Is(err, ErrFormatTooLong) {
		t.Errorf("want ErrFormatTooLong, got %v", err)
	}
}

func TestStorePayloadTooLarge(t *testing.T) {
	storage, err := New(Options{MaxUncompressedSize: 1024})
	if err != nil {
		t.Fatal(err)
	}

	_, err = storage.Store(make([]byte, 1025), "raw")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("want ErrPayloadTooLarge, got %v", err)
	}

	if _, err := storage.Store(make([]byte, 1024), "raw"); err != nil {
		t.Errorf("payload exactly at the cap should store: %v", err)
	}
}

func TestStoreDeterministic(t *testing.T) {
	storage := testStorage(t)
	payload := compressibleData(8 * 1024)

	first, err := storage.Store(payload, "raw")
	if err != nil {
		t.Fatal(err)
	}
	second, err := storage.Store(payload, "raw")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical Store calls should produce identical envelope bytes")
	}
}

func TestRetrieveGarbage(t *testing.T) {
	storage := testStorage(t)

	inputs := [][]byte{
		nil,
		{},
		{0x00},
		{0xff, 0xff, 0xff, 0xff},
		[]byte("not an envelope at all"),
		bytes.Repeat([]byte{0xa5}, 1024),
	}

	for _, input := range inputs {
		_, _, err := storage.Retrieve(input)
		if !errors.Is(err, ErrDecodingFailed) {
			t.Errorf("Retrieve(%d garbage bytes): want ErrDecodingFailed, got %v", len(input), err)
		}
		if storage.Validate(input) {
			t.Errorf("Validate(%d garbage bytes) = true", len(input))
		}
	}
}

func TestRetrieveTruncatedEnvelope(t *testing.T) {
	storage := testStorage(t)

	serialized, err := storage.Store(compressibleData(4*1024), "raw")
	if err != nil {
		t.Fatal(err)
	}

	for _, cut := range []int{1, len(serialized) / 2, len(serialized) - 1} {
		_, _, err := storage.Retrieve(serialized[:cut])
		if !errors.Is(err, ErrDecodingFailed) {
			t.Errorf("truncation to %d bytes: want ErrDecodingFailed, got %v", cut, err)
		}
	}
}

func TestRetrieveWrongChecksumLength(t *testing.T) {
	storage := testStorage(t)

	serialized, err := codec.Marshal(map[string]any{
		"compressed_data": []byte("xxxx"),
		"checksum":        []byte("short"),
		"original_size":   uint32(4),
		"format":          "raw",
		"compression":     uint8(CompressionNone),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = storage.Retrieve(serialized)
	if !errors.Is(err, ErrDecodingFailed) {
		t.Errorf("short checksum: want ErrDecodingFailed, got %v", err)
	}
}

func TestRetrieveHonorsConfiguredCap(t *testing.T) {
	// A storage with a lowered cap rejects envelopes produced under
	// a higher one, before decompression.
	big := testStorage(t)
	small, err := New(Options{MaxUncompressedSize: 1024})
	if err != nil {
		t.Fatal(err)
	}

	serialized, err := big.Store(compressibleData(64*1024), "raw")
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = small.Retrieve(serialized)
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Errorf("want ErrSizeLimitExceeded under the lowered cap, got %v", err)
	}
	if small.Validate(serialized) {
		t.Error("Validate should agree with Retrieve under the lowered cap")
	}
}

func TestValidateMatchesRetrieve(t *testing.T) {
	storage := testStorage(t)

	serialized, err := storage.Store([]byte("valid payload"), "raw")
	if err != nil {
		t.Fatal(err)
	}

	if !storage.Validate(serialized) {
		t.Error("Validate = false for bytes Retrieve accepts")
	}

	// Corrupt a byte near the end (inside the compressed data or
	// checksum) and confirm both reject.
	corrupted := make([]byte, len(serialized))
	copy(corrupted, serialized)
	corrupted[len(corrupted)-3] ^= 0x40

	_, _, retrieveErr := storage.Retrieve(corrupted)
	if (retrieveErr == nil) != storage.Validate(corrupted) {
		t.Error("Validate disagrees with Retrieve on corrupted bytes")
	}
}

func TestEstimateCompression(t *testing.T) {
	storage := testStorage(t)

	t.Run("empty", func(t *testing.T) {
		estimate := storage.EstimateCompression(nil)
		if estimate.OriginalSize != 0 || estimate.EstimatedSize != 0 {
			t.Errorf("empty estimate = %+v", estimate)
		}
		if estimate.Ratio != 1.0 {
			t.Errorf("empty ratio = %f, want 1.0", estimate.Ratio)
		}
	})

	t.Run("compressible", func(t *testing.T) {
		payload := compressibleData(256 * 1024)
		estimate := storage.EstimateCompression(payload)
		if estimate.EstimatedSize >= len(payload) {
			t.Errorf("compressible estimate did not shrink: %d >= %d",
				estimate.EstimatedSize, len(payload))
		}
		if estimate.Ratio <= 1.0 {
			t.Errorf("compressible ratio = %f, want > 1.0", estimate.Ratio)
		}
		if estimate.Compression != CompressionZstd {
			t.Errorf("estimate probed with %v, want zstd", estimate.Compression)
		}
	})

	t.Run("incompressible", func(t *testing.T) {
		payload := make([]byte, 64*1024)
		if _, err := rand.Read(payload); err != nil {
			t.Fatal(err)
		}
		estimate := storage.EstimateCompression(payload)
		if estimate.EstimatedSize != len(payload) {
			t.Errorf("incompressible estimate = %d, want %d", estimate.EstimatedSize, len(payload))
		}
		if estimate.Compression != CompressionNone {
			t.Errorf("incompressible estimate tag = %v, want none", estimate.Compression)
		}
	})

	t.Run("larger than sample window", func(t *testing.T) {
		payload := compressibleData(4 * 1024 * 1024)
		estimate := storage.EstimateCompression(payload)
		if estimate.OriginalSize != len(payload) {
			t.Errorf("OriginalSize = %d, want %d", estimate.OriginalSize, len(payload))
		}
		if estimate.EstimatedSize >= len(payload) {
			t.Error("extrapolated estimate should still predict a gain")
		}
	})
}

func TestMaxUncompressedSize(t *testing.T) {
	if got := testStorage(t).MaxUncompressedSize(); got != MaxUncompressedSize {
		t.Errorf("default cap = %d, want %d", got, MaxUncompressedSize)
	}

	storage, err := New(Options{MaxUncompressedSize: 4096})
	if err != nil {
		t.Fatal(err)
	}
	if got := storage.MaxUncompressedSize(); got != 4096 {
		t.Errorf("configured cap = %d, want 4096", got)
	}
}

func TestNewRejectsOversizedCap(t *testing.T) {
	if _, err := New(Options{MaxUncompressedSize: MaxUncompressedSize + 1}); err == nil {
		t.Error("a per-instance cap above the package hard cap must be rejected")
	}
	if _, err := New(Options{MaxUncompressedSize: -1}); err == nil {
		t.Error("a negative cap must be rejected")
	}
}

func TestStorageLZ4Configuration(t *testing.T) {
	storage, err := New(Options{Compression: CompressionLZ4})
	if err != nil {
		t.Fatal(err)
	}

	payload := compressibleData(32 * 1024)
	serialized, err := storage.Store(payload, "raw")
	if err != nil {
		t.Fatal(err)
	}
	retrieved, _, err := storage.Retrieve(serialized)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !bytes.Equal(retrieved, payload) {
		t.Error("lz4 storage roundtrip failed")
	}

	// A zstd-configured storage reads lz4 envelopes: the compression
	// tag travels in the envelope.
	retrieved, _, err = testStorage(t).Retrieve(serialized)
	if err != nil {
		t.Fatalf("cross-codec Retrieve failed: %v", err)
	}
	if !bytes.Equal(retrieved, payload) {
		t.Error("cross-codec roundtrip failed")
	}
}

func TestStorageNoCompression(t *testing.T) {
	storage, err := New(Options{NoCompression: true})
	if err != nil {
		t.Fatal(err)
	}

	payload := compressibleData(8 * 1024)
	serialized, err := storage.Store(payload, "raw")
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := unmarshalEnvelope(serialized)
	if err != nil {
		t.Fatal(err)
	}
	if envelope.Compression != CompressionNone {
		t.Errorf("NoCompression storage wrote tag %v", envelope.Compression)
	}
	if !bytes.Equal(envelope.CompressedData, payload) {
		t.Error("NoCompression storage should store the payload verbatim")
	}
}
