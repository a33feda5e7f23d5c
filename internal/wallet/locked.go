package wallet

import (
	"runtime"
	"sync"
)

// LockedBuffer holds decrypted key material. Its pages are pinned in RAM
// when the OS allows it, so the mnemonic and seed are not written to swap,
// and Destroy wipes them.
type LockedBuffer struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewLockedBuffer allocates a zeroed buffer of size bytes. A failed mlock is
// not an error; Locked reports whether the pages were pinned.
func NewLockedBuffer(size int) *LockedBuffer {
	b := &LockedBuffer{data: make([]byte, size)}
	b.locked = mlock(b.data)

	// Wipe on collection if the owner forgets to.
	runtime.SetFinalizer(b, func(b *LockedBuffer) { b.Destroy() })
	return b
}

// MoveToLockedBuffer copies src into a new locked buffer and wipes src.
func MoveToLockedBuffer(src []byte) *LockedBuffer {
	b := NewLockedBuffer(len(src))
	copy(b.data, src)
	wipe(src)
	return b
}

// Bytes returns the buffer contents, or nil after Destroy. The slice is only
// valid until Destroy.
func (b *LockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Locked reports whether the buffer is pinned in memory.
func (b *LockedBuffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Len returns the number of bytes held.
func (b *LockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Destroy wipes and unpins the buffer. It is safe to call more than once.
func (b *LockedBuffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}
	wipe(b.data)
	if b.locked {
		munlock(b.data)
		b.locked = false
	}
	b.data = nil
	runtime.SetFinalizer(b, nil)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
