package hostfuncs

import (
	"bytes"
	"sync"
)

// DefaultMaxOutputSize caps the captured stdout and stderr of a single command (10MB).
// Release builds are verbose; the job only needs the tail of a failure.
const DefaultMaxOutputSize = 10 * 1024 * 1024

// DefaultMaxRequestSize limits the size of a request read from guest memory (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// BoundedBuffer is an io.Writer that keeps at most limit bytes and discards the rest.
// It is safe for concurrent writes.
type BoundedBuffer struct {
	mu        sync.Mutex
	buffer    bytes.Buffer
	limit     int
	truncated bool
}

// NewBoundedBuffer creates a new BoundedBuffer with the specified limit.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{limit: limit}
}

// Write implements io.Writer. It always reports len(p) so writers such as
// exec.Cmd never see a short write.
func (b *BoundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		b.buffer.Write(p[:remaining])
		return len(p), nil
	}
	b.buffer.Write(p)
	return len(p), nil
}

// Truncated reports whether any data was discarded.
func (b *BoundedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// String returns the buffer contents as a string.
func (b *BoundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// Len returns the current length of the buffer.
func (b *BoundedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Len()
}

// Reset clears the buffer and the truncated flag.
func (b *BoundedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.Reset()
	b.truncated = false
}
