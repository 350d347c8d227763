// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/bytevault/bytevault/lib/secret"
)

// MinMasterKeyLength is the minimum master key length accepted by
// key derivation. 16 bytes is the floor; production master secrets
// should carry at least KeySize (32) bytes of entropy.
const MinMasterKeyLength = 16

// DeriveDomainKey derives a 32-byte key from a master key,
// deterministically separated by domain label and tenant salt. It is
// HKDF-SHA256 with the tenant salt as the HKDF salt and the domain
// label as the info parameter. The two inputs feed different HKDF
// stages, so no concatenation ambiguity exists between label and
// salt.
//
// Identical inputs always yield the identical key; varying any input
// yields an independent-looking key. One master secret can therefore
// serve many tenants and purposes: compromise of one derived key
// reveals nothing about its siblings.
//
// The domain label and tenant salt are opaque derivation context
// with no content validation: any bytes, including empty, null
// bytes, or multi-kilobyte tenant identifiers, are accepted. Cost is
// a single linear pass over the salt. The master key must be at
// least MinMasterKeyLength bytes, else ErrInvalidKeyLength.
func DeriveDomainKey(masterKey []byte, domainLabel string, tenantSalt []byte) ([KeySize]byte, error) {
	var derived [KeySize]byte
	if len(masterKey) < MinMasterKeyLength {
		return derived, fmt.Errorf("%w: master key is %d bytes, minimum is %d",
			ErrInvalidKeyLength, len(masterKey), MinMasterKeyLength)
	}

	reader := hkdf.New(sha256.New, masterKey, tenantSalt, []byte(domainLabel))
	if _, err := io.ReadFull(reader, derived[:]); err != nil {
		return derived, fmt.Errorf("HKDF key derivation failed: %w", err)
	}
	return derived, nil
}

// DeriveDomainKeyBuffer derives a domain key directly into guarded
// memory. Use this for long-lived derived keys; transient keys (one
// encrypt or decrypt call) can use DeriveDomainKey and zero the
// array afterwards.
func DeriveDomainKeyBuffer(masterKey *secret.Buffer, domainLabel string, tenantSalt []byte) (*secret.Buffer, error) {
	derived, err := DeriveDomainKey(masterKey.Bytes(), domainLabel, tenantSalt)
	if err != nil {
		return nil, err
	}
	// NewFromBytes copies into the mmap region and zeroes the heap
	// slice it was handed.
	return secret.NewFromBytes(derived[:])
}
