// Package allocator declares the allocator contract shared by every memory
// backend critnib's memory provider can be built on. The package itself
// holds no allocation strategy: concrete backends (for example
// internal/region's mmap-backed Arena) implement Allocator directly, so the
// provider can be wired against whichever backend fits its deployment
// without depending on its concrete type.
package allocator

import "unsafe"

// Allocator defines the interface a memory provider's backing store must
// satisfy.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Free(ptr unsafe.Pointer)
	Realloc(ptr unsafe.Pointer, newSize uintptr) unsafe.Pointer
	TotalAllocated() uintptr
	TotalFreed() uintptr
	ActiveAllocations() int
	Stats() AllocatorStats
	Reset() // For arena allocators
}

// AllocatorStats provides allocation statistics.
type AllocatorStats struct {
	TotalAllocated    uintptr
	TotalFreed        uintptr
	ActiveAllocations int
	PeakAllocations   int
	AllocationCount   uint64
	FreeCount         uint64
	BytesInUse        uintptr
	SystemMemory      uintptr
}
