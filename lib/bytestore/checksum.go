// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package bytestore

import (
	"github.com/zeebo/blake3"
)

// Checksum is the 32-byte BLAKE3 digest stored in an envelope. It is
// computed over the decompressed (original) payload, not over the
// compressed bytes: it validates what the caller actually receives,
// and corruption that still yields a syntactically valid compressed
// stream is classified as an integrity failure rather than a format
// failure.
type Checksum [32]byte

// payloadDomainKey is the BLAKE3 keyed-hashing domain key for
// envelope payload checksums. The value is a fixed constant: the
// ASCII encoding of the domain name, zero-padded to 32 bytes.
// Readable ASCII keeps the key inspectable in hex dumps without
// sacrificing any cryptographic property; BLAKE3 keyed mode treats
// it as an opaque 32-byte value. Changing it invalidates every
// stored envelope.
var payloadDomainKey = [32]byte{
	'b', 'y', 't', 'e', 'v', 'a', 'u', 'l', 't', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// checksumPayload computes the payload-domain BLAKE3 keyed digest of
// the given bytes. Domain keying ensures an envelope checksum can
// never collide with any other BLAKE3 hash of the same input.
func checksumPayload(data []byte) Checksum {
	// NewKeyed requires exactly 32 bytes, which the fixed-size
	// domain key guarantees, so the error path is unreachable.
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		panic("bytestore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Checksum
	copy(digest[:], hasher.Sum(nil))
	return digest
}
