//go:build wasip1

package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// DefaultMaxTotalAllocations caps the memory the plugin may hand to the host at once.
const DefaultMaxTotalAllocations = 64 * 1024 * 1024

// Allocations are pinned in ptrs until freed so the GC cannot move or collect
// memory the host is still reading.
var memoryManager = struct {
	sync.Mutex
	ptrs           map[uint32][]byte
	totalAllocated int
	limit          int
}{
	ptrs:  make(map[uint32][]byte),
	limit: DefaultMaxTotalAllocations,
}

// Option configures the memory manager.
type Option func(*config)

type config struct {
	maxTotal int
}

// WithMaxTotalAllocations sets the allocation ceiling. Non-positive values are ignored.
func WithMaxTotalAllocations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTotal = n
		}
	}
}

// Configure applies options to the memory manager.
func Configure(opts ...Option) {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	cfg := config{maxTotal: memoryManager.limit}
	for _, opt := range opts {
		opt(&cfg)
	}
	memoryManager.limit = cfg.maxTotal
}

// allocate reserves size bytes and returns their offset. The host calls it to
// place responses in plugin memory.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	memoryManager.Lock()
	defer memoryManager.Unlock()

	if memoryManager.totalAllocated+int(size) > memoryManager.limit {
		panic(fmt.Sprintf("abi: allocation of %d bytes exceeds limit (in use: %d, limit: %d)",
			size, memoryManager.totalAllocated, memoryManager.limit))
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	memoryManager.ptrs[ptr] = buf
	memoryManager.totalAllocated += int(size)
	return ptr
}

// deallocate releases a tracked allocation. Unknown pointers are ignored and
// accounting uses the stored length, not size.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, size uint32) {
	memoryManager.Lock()
	defer memoryManager.Unlock()

	buf, ok := memoryManager.ptrs[ptr]
	if !ok {
		return
	}
	delete(memoryManager.ptrs, ptr)
	memoryManager.totalAllocated = max(memoryManager.totalAllocated-len(buf), 0)
}

// FreeAllTracked drops every tracked allocation. Called after a recovered panic.
func FreeAllTracked() {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	clear(memoryManager.ptrs)
	memoryManager.totalAllocated = 0
}

// Stats reports the number of tracked allocations and their total size.
func Stats() (count, bytes int) {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	return len(memoryManager.ptrs), memoryManager.totalAllocated
}

// PtrFromBytes copies data into tracked memory and returns it packed.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data))
	ptr := allocate(size)
	copyToMemory(ptr, data)
	return PackPtrLen(ptr, size)
}

// BytesFromPtr returns a copy of the bytes referenced by packed.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	return readFromMemory(ptr, length)
}

// DeallocatePacked frees the allocation referenced by packed.
func DeallocatePacked(packed uint64) {
	ptr, length := UnpackPtrLen(packed)
	if ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}

func copyToMemory(ptr uint32, data []byte) {
	//nolint:gosec // G103: linear memory offsets are valid pointers inside the module
	dest := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), len(data))
	copy(dest, data)
}

func readFromMemory(ptr uint32, length uint32) []byte {
	//nolint:gosec // G103: linear memory offsets are valid pointers inside the module
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length)
	data := make([]byte, length)
	copy(data, src)
	return data
}
