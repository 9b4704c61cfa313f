// Package secure provides scratch buffers for secret material that must
// be mlocked where the OS allows it and wiped with a three-pass (random,
// 0xFF, 0x00) volatile-store barrier before release: SSS polynomial
// coefficients and reconstructed secrets in particular.
package secure

import (
	"crypto/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// mlockEnabled gates the mlock attempt in New. On by default; disabled
// via SetMlockEnabled when the security.memory_lock config is off (e.g.
// inside containers with a tight RLIMIT_MEMLOCK).
var mlockEnabled atomic.Bool

func init() { mlockEnabled.Store(true) }

// SetMlockEnabled toggles whether new buffers attempt to lock their
// memory. Wiping on Destroy is unaffected.
func SetMlockEnabled(enabled bool) {
	mlockEnabled.Store(enabled)
}

// Bytes wraps a sensitive byte slice with best-effort mlock and an
// explicit multi-pass zeroing on Destroy.
type Bytes struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// New allocates a zeroed Bytes of the given size and attempts to mlock
// it, unless locking has been disabled via SetMlockEnabled.
func New(size int) *Bytes {
	data := make([]byte, size)
	b := &Bytes{data: data}
	if mlockEnabled.Load() {
		b.locked = mlock(data)
	}
	runtime.SetFinalizer(b, func(s *Bytes) { s.Destroy() })
	return b
}

// FromSlice copies data into a new secure buffer. The caller retains
// ownership of the original slice.
func FromSlice(data []byte) *Bytes {
	b := New(len(data))
	copy(b.data, data)
	return b
}

// Bytes returns the underlying slice, or nil once destroyed.
func (b *Bytes) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the buffer length, or 0 once destroyed.
func (b *Bytes) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// IsLocked reports whether the OS honored the mlock request.
func (b *Bytes) IsLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Destroy performs the three-pass wipe (random, 0xFF, 0x00), unlocks the
// memory, and releases the buffer. Safe to call more than once.
func (b *Bytes) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}

	Wipe(b.data)

	if b.locked {
		munlock(b.data)
		b.locked = false
	}
	b.data = nil
	runtime.SetFinalizer(b, nil)
}

// Wipe overwrites data in three passes — random, 0xFF, 0x00 — each
// followed by a volatile-store barrier so the compiler cannot elide the
// writes as dead stores.
func Wipe(data []byte) {
	if len(data) == 0 {
		return
	}

	_, _ = rand.Read(data) // random pass
	barrier(data)

	for i := range data {
		data[i] = 0xFF
	}
	barrier(data)

	for i := range data {
		data[i] = 0x00
	}
	barrier(data)
}

// barrier forces the preceding writes to data to actually happen before
// this call returns, defeating a dead-store-elimination pass that would
// otherwise drop writes to a slice that's about to go out of scope.
//
//go:noinline
func barrier(data []byte) {
	runtime.KeepAlive(data)
}
