// Copyright 2026 The Bytevault Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data
// such as master keys and derived encryption keys.
//
// [Buffer] allocates memory outside the Go heap via
// mmap(MAP_ANONYMOUS), locks it into physical RAM via mlock
// (preventing swap), and marks it excluded from core dumps via
// madvise(MADV_DONTDUMP). On Close, the memory is zeroed, unlocked,
// and unmapped. Because the memory lives outside the Go heap, the
// garbage collector cannot copy or relocate it, guaranteeing secret
// material does not persist after release.
//
// Access via [Buffer.Bytes] (slice into the mmap region).
// [Buffer.Equal] uses constant-time comparison. After Close, any
// access panics. Close is idempotent.
//
// Depends on golang.org/x/sys/unix only. Imported by lib/seal for
// master-key custody in SealedStorage.
package secret
