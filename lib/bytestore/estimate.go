// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

// estimateSampleSize is the maximum number of payload bytes the
// compression estimator actually compresses. Larger payloads are
// probed on a prefix and the ratio extrapolated. The estimate is
// advisory, and probing a bounded window keeps its cost independent
// of payload size.
const estimateSampleSize = 1 * 1024 * 1024

// CompressionEstimate predicts how an envelope write would compress
// a payload. The estimate is advisory: Store may do marginally
// better or worse, and may fall back to CompressionNone if the full
// payload turns out incompressible.
type CompressionEstimate struct {
	// OriginalSize is the payload length in bytes.
	OriginalSize int

	// EstimatedSize is the predicted compressed size in bytes.
	EstimatedSize int

	// Ratio is OriginalSize divided by EstimatedSize; 1.0 for
	// incompressible or empty payloads.
	Ratio float64

	// Compression is the algorithm the estimate was probed with.
	// CompressionNone when the probe found the payload
	// incompressible.
	Compression CompressionTag
}

// EstimateCompression predicts the compressed size of payload under
// the storage's configured algorithm without building an envelope.
// It never fails and never panics, for any payload size or content,
// including empty input: a payload the probe cannot shrink reports
// its own size with ratio 1.0.
func (s *ByteStorage) EstimateCompression(payload []byte) CompressionEstimate {
	estimate := CompressionEstimate{
		OriginalSize:  len(payload),
		EstimatedSize: len(payload),
		Ratio:         1.0,
		Compression:   CompressionNone,
	}
	if len(payload) == 0 || s.compression == CompressionNone {
		return estimate
	}

	sample := payload
	if len(sample) > estimateSampleSize {
		sample = sample[:estimateSampleSize]
	}

	compressed, err := compress(sample, s.compression)
	if err != nil {
		// Incompressible sample, or a codec that cannot shrink this
		// content. Either way the prediction is "no gain"; the
		// estimator has no error path.
		return estimate
	}

	ratio := float64(len(sample)) / float64(len(compressed))
	estimate.EstimatedSize = int(float64(len(payload)) / ratio)
	if estimate.EstimatedSize < 1 {
		estimate.EstimatedSize = 1
	}
	estimate.Ratio = ratio
	estimate.Compression = s.compression
	return estimate
}
