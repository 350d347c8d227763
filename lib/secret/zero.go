// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

package secret

// Zero overwrites the slice contents with zero bytes. Use this on
// heap-allocated slices that transiently held key material (HKDF
// output, decrypted keys) before they go out of scope.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
