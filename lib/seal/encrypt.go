// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the size in bytes of all symmetric encryption keys:
// the ChaCha20-Poly1305 key length.
const KeySize = chacha20poly1305.KeySize

// NonceSize is the size in bytes of the nonce prepended to every
// ciphertext.
const NonceSize = chacha20poly1305.NonceSize

// TagSize is the size in bytes of the Poly1305 authentication tag
// appended to every ciphertext.
const TagSize = chacha20poly1305.Overhead

// MinCiphertextLength is the smallest valid encrypted blob: a nonce
// and a tag around an empty plaintext, 28 bytes. Anything shorter is
// rejected as an authentication failure without touching the AEAD.
const MinCiphertextLength = NonceSize + TagSize

// NonceSource fills nonces with unpredictable bytes. The default
// source reads the operating system CSPRNG via crypto/rand, which is
// safe for concurrent callers. The abstraction exists so tests can
// substitute a deterministic source without touching the encryptor's
// logic; it is the only process-wide shared state in the package.
type NonceSource interface {
	// ReadNonce fills nonce completely or returns an error. It must
	// never return a partially filled nonce as success.
	ReadNonce(nonce []byte) error
}

// randomNonceSource reads from crypto/rand.Reader.
type randomNonceSource struct{}

func (randomNonceSource) ReadNonce(nonce []byte) error {
	_, err := io.ReadFull(rand.Reader, nonce)
	return err
}

// Encryptor performs authenticated encryption over externally
// supplied keys. It holds no key material between calls: every
// cryptographic input is an explicit argument, so an Encryptor value
// is stateless and safe for unbounded concurrent use.
//
// The zero value uses the operating system CSPRNG for nonces.
type Encryptor struct {
	nonces NonceSource
}

// NewEncryptor returns an Encryptor drawing nonces from the
// operating system CSPRNG.
func NewEncryptor() Encryptor {
	return Encryptor{}
}

// NewEncryptorWithNonceSource returns an Encryptor drawing nonces
// from the given source. Intended for tests; production callers use
// NewEncryptor.
func NewEncryptorWithNonceSource(source NonceSource) Encryptor {
	return Encryptor{nonces: source}
}

// Encrypt seals plaintext under key with ChaCha20-Poly1305 and
// returns nonce ‖ ciphertext ‖ tag. A fresh 12-byte nonce is drawn
// from the CSPRNG per call, so encrypting the same inputs twice
// yields distinct blobs and nonce reuse across any realistic call
// volume is cryptographically negligible.
//
// associatedData is bound into the authentication tag but not
// encrypted; Decrypt must receive the byte-exact same value. The
// key must be exactly KeySize bytes, else ErrInvalidKeyLength.
func (e Encryptor) Encrypt(plaintext, key, associatedData []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKeyLength, len(key), KeySize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("creating ChaCha20-Poly1305 cipher: %w", err)
	}

	var nonce [NonceSize]byte
	if err := e.nonceSource().ReadNonce(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	output := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	copy(output, nonce[:])

	// Seal appends ciphertext+tag after the nonce.
	return aead.Seal(output, nonce[:], plaintext, associatedData), nil
}

// Decrypt opens a blob produced by Encrypt. The key and
// associatedData must match the encrypting call byte-exactly. Any
// failure (truncation below MinCiphertextLength, a flipped bit
// anywhere in the blob, a wrong key, or mismatched associated
// data) returns ErrAuthenticationFailed with no plaintext.
func (e Encryptor) Decrypt(blob, key, associatedData []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKeyLength, len(key), KeySize)
	}
	if len(blob) < MinCiphertextLength {
		return nil, fmt.Errorf("%w: blob is %d bytes, minimum is %d (nonce + tag)",
			ErrAuthenticationFailed, len(blob), MinCiphertextLength)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("creating ChaCha20-Poly1305 cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], associatedData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

func (e Encryptor) nonceSource() NonceSource {
	if e.nonces == nil {
		return randomNonceSource{}
	}
	return e.nonces
}
