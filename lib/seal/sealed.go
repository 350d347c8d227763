// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"fmt"

	"github.com/bytevault/bytevault/lib/bytestore"
	"github.com/bytevault/bytevault/lib/secret"
)

// tenantDomainLabel is the HKDF info string for per-tenant sealing
// keys. A protocol constant: changing it invalidates every sealed
// blob.
const tenantDomainLabel = "bytevault.seal.tenant.v1"

// SealedStorage composes the envelope codec with the authenticated
// encryptor: serialized envelope bytes are the plaintext input to
// encryption, and the encrypted blob is the unit persisted or
// transmitted. Per-tenant keys are derived from a single master key,
// so one secret serves many tenants without cross-tenant key
// leakage.
//
// Each layer's failure is independent and never masked by the
// other. Unseal never retries envelope decoding on raw (still
// encrypted) bytes after an authentication failure, and an envelope
// error after successful decryption means the inner content was
// corrupted before sealing, not an authentication problem.
//
// The master key lives in guarded memory (locked against swap,
// excluded from core dumps) and is zeroed by Close. SealedStorage is
// safe for concurrent use; Close must not race in-flight calls.
type SealedStorage struct {
	masterKey *secret.Buffer
	storage   *bytestore.ByteStorage
	encryptor Encryptor
}

// NewSealedStorage creates a SealedStorage over the given envelope
// storage. The masterKey buffer is owned by the SealedStorage and
// closed by Close; the caller must not use it after handing it over.
// It must hold at least MinMasterKeyLength bytes.
func NewSealedStorage(masterKey *secret.Buffer, storage *bytestore.ByteStorage) (*SealedStorage, error) {
	if masterKey.Len() < MinMasterKeyLength {
		return nil, fmt.Errorf("%w: master key is %d bytes, minimum is %d",
			ErrInvalidKeyLength, masterKey.Len(), MinMasterKeyLength)
	}
	return &SealedStorage{
		masterKey: masterKey,
		storage:   storage,
		encryptor: NewEncryptor(),
	}, nil
}

// Seal stores payload as an envelope and encrypts the serialized
// envelope under the tenant's derived key. associatedData binds
// caller context (a logical stream, a cache namespace) that the
// envelope itself does not carry; its format label is opaque and
// deliberately unauthenticated.
//
// Envelope errors (ErrPayloadTooLarge, ErrFormatTooLong,
// ErrEncodingFailed from lib/bytestore) and encryption errors
// surface unchanged from their layer.
func (s *SealedStorage) Seal(payload []byte, format string, tenant string, associatedData []byte) ([]byte, error) {
	serialized, err := s.storage.Store(payload, format)
	if err != nil {
		return nil, err
	}

	key, err := DeriveDomainKey(s.masterKey.Bytes(), tenantDomainLabel, []byte(tenant))
	if err != nil {
		return nil, err
	}
	defer secret.Zero(key[:])

	return s.encryptor.Encrypt(serialized, key[:], associatedData)
}

// Unseal decrypts a sealed blob under the tenant's derived key and
// extracts the inner envelope, returning the payload and format
// label. The tenant and associatedData must match the Seal call
// byte-exactly, else ErrAuthenticationFailed. Envelope-layer errors
// after successful decryption propagate unchanged, identifying
// which layer rejected the data.
func (s *SealedStorage) Unseal(blob []byte, tenant string, associatedData []byte) ([]byte, string, error) {
	key, err := DeriveDomainKey(s.masterKey.Bytes(), tenantDomainLabel, []byte(tenant))
	if err != nil {
		return nil, "", err
	}
	defer secret.Zero(key[:])

	serialized, err := s.encryptor.Decrypt(blob, key[:], associatedData)
	if err != nil {
		return nil, "", err
	}

	return s.storage.Retrieve(serialized)
}

// TenantKey derives the tenant's sealing key into guarded memory.
// Exposed for callers that encrypt out-of-band traffic under the
// same per-tenant key; the returned buffer must be closed.
func (s *SealedStorage) TenantKey(tenant string) (*secret.Buffer, error) {
	return DeriveDomainKeyBuffer(s.masterKey, tenantDomainLabel, []byte(tenant))
}

// Close zeroes and releases the master key. After Close, Seal and
// Unseal panic (via secret.Buffer's closed check). Idempotent.
func (s *SealedStorage) Close() error {
	return s.masterKey.Close()
}
