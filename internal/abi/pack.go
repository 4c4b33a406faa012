// Package abi implements the pointer/length convention shared by the plugin
// and the host. Every JSON payload crossing the boundary is passed as a single
// uint64 with the offset in the high 32 bits and the length in the low 32 bits.
package abi

import "fmt"

// PtrHighBits is the shift applied to the pointer half of a packed value.
const PtrHighBits = 32

// PackPtrLen packs a pointer and length into a single uint64.
// Panics if ptr is 0 and length > 0.
func PackPtrLen(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: invalid pack - null pointer (0x0) with non-zero length (%d)", length))
	}
	return (uint64(ptr) << PtrHighBits) | uint64(length)
}

// UnpackPtrLen unpacks a uint64 into its pointer and length.
// Panics if ptr is 0 and length > 0.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> PtrHighBits)
	length = uint32(packed)
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: invalid unpack - null pointer (0x0) with non-zero length (%d)", length))
	}
	return ptr, length
}
