// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned by reads from a closed Buffer.
var ErrClosed = errors.New("secret: buffer is closed")

// Buffer holds one secret value outside the Go heap. Safe for
// concurrent use. Must not be copied.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	size   int
}

// New moves source into a protected region and zeroes source.
func New(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: empty value")
	}
	region, err := unix.Mmap(-1, 0, len(source), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	// MADV_DONTDUMP is best effort; some kernels reject it.
	_ = unix.Madvise(region, unix.MADV_DONTDUMP)

	copy(region, source)
	Zero(source)
	return &Buffer{region: region, size: len(source)}, nil
}

// FromString copies value into a protected region. The string itself
// cannot be zeroed and is left to the garbage collector.
func FromString(value string) (*Buffer, error) {
	return New([]byte(value))
}

// String returns a heap copy of the secret. Use only at the boundary
// that needs it (an HTTP header, a websocket URL).
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.region == nil {
		return ""
	}
	return string(b.region[:b.size])
}

// Len returns the secret's length, or zero after Close.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.region == nil {
		return 0
	}
	return b.size
}

// Closed reports whether Close has run.
func (b *Buffer) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.region == nil
}

// Close zeroes and releases the region. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.region == nil {
		return nil
	}
	Zero(b.region)
	err := errors.Join(unix.Munlock(b.region), unix.Munmap(b.region))
	b.region = nil
	if err != nil {
		return fmt.Errorf("secret: release: %w", err)
	}
	return nil
}

// Zero overwrites data with zero bytes.
func Zero(data []byte) {
	clear(data)
}
