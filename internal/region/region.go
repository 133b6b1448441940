// Package region implements an allocator.Allocator backed by anonymous
// mmap regions instead of Go-heap slices, for memory providers that want
// their tracked allocations to live outside the garbage-collected heap.
//
// Each Region is a single fixed-size mapping carved up with a simple
// bump-and-free-list scheme; there is no coalescing or splitting across
// region boundaries, matching the "one region per size tier" approach a
// real device-memory provider would take.
package region

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/orizon-lang/critnib/internal/allocator"
)

// ID identifies a region within an Arena.
type ID uint64

// freeBlock is a singly linked free list node stored inline at the start
// of the free block itself.
type freeBlock struct {
	size uintptr
	next *freeBlock
}

// minBlockSize is the smallest block a Region will ever hand out: a freed
// block stores its freeBlock header inline, so nothing smaller than the
// header itself can ever be recycled.
const minBlockSize = unsafe.Sizeof(freeBlock{})

// Region is one contiguous anonymous mapping, bump-allocated from the
// front with freed blocks recycled via a free list.
type Region struct {
	id       ID
	mem      []byte
	offset   uintptr
	free     *freeBlock
	mu       sync.Mutex
	allocs   int64
	frees    int64
	capacity uintptr
}

// Arena owns a set of regions and implements allocator.Allocator by
// routing each request to whichever region has room, growing by adding a
// new region when none do.
type Arena struct {
	mu          sync.Mutex
	regionSize  uintptr
	regions     []*Region
	nextID      ID
	totalAlloc  atomic.Uint64
	totalFree   atomic.Uint64
	allocCount  atomic.Uint64
	freeCount   atomic.Uint64
	activeCount atomic.Int64
}

// NewArena creates an Arena that grows by mapping regionSize bytes at a
// time. regionSize is rounded up to the platform page size.
func NewArena(regionSize uintptr) *Arena {
	return &Arena{regionSize: roundToPage(regionSize)}
}

// Alloc reserves size bytes and returns a pointer into a region's
// mapping, or nil if the allocation could not be satisfied (eg the
// underlying mmap call failed).
func (a *Arena) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	size = alignUp(size, 8)
	if size < minBlockSize {
		size = minBlockSize
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.regions {
		if p := r.alloc(size); p != nil {
			a.totalAlloc.Add(uint64(size))
			a.allocCount.Add(1)
			a.activeCount.Add(1)

			return p
		}
	}

	regionSize := a.regionSize
	if size > regionSize {
		regionSize = roundToPage(size)
	}

	r, err := newRegion(a.nextID, regionSize)
	if err != nil {
		return nil
	}

	a.nextID++
	a.regions = append(a.regions, r)

	p := r.alloc(size)
	if p == nil {
		return nil
	}

	a.totalAlloc.Add(uint64(size))
	a.allocCount.Add(1)
	a.activeCount.Add(1)

	return p
}

// FreeSized releases a block previously returned by Alloc. The caller must
// pass the exact size originally requested: unlike the Go heap, a region
// does not record per-allocation sizes.
func (a *Arena) FreeSized(ptr unsafe.Pointer, size uintptr) {
	if ptr == nil || size == 0 {
		return
	}

	size = alignUp(size, 8)
	if size < minBlockSize {
		size = minBlockSize
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.regions {
		if r.owns(ptr) {
			r.free(ptr, size)
			a.totalFree.Add(uint64(size))
			a.freeCount.Add(1)
			a.activeCount.Add(-1)

			return
		}
	}
}

// Free implements allocator.Allocator. Because that interface doesn't
// carry a size, Free here is a no-op beyond bookkeeping; callers that
// know their allocation size should use FreeSized instead to actually
// recycle the block.
func (a *Arena) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	a.freeCount.Add(1)
}

// Realloc allocates a new block of newSize bytes and copies up to newSize
// bytes from ptr into it, never reading past the end of the region that
// owns ptr. Region blocks don't track their own size, so bytes beyond the
// end of the old block may be copied too. ptr itself is not freed.
func (a *Arena) Realloc(ptr unsafe.Pointer, newSize uintptr) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(newSize)
	}

	newPtr := a.Alloc(newSize)
	if newPtr == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.regions {
		if r.owns(ptr) {
			end := uintptr(unsafe.Pointer(&r.mem[0])) + uintptr(len(r.mem))
			n := min(newSize, end-uintptr(ptr))
			copy(unsafe.Slice((*byte)(newPtr), n), unsafe.Slice((*byte)(ptr), n))

			break
		}
	}

	return newPtr
}

func (a *Arena) TotalAllocated() uintptr { return uintptr(a.totalAlloc.Load()) }
func (a *Arena) TotalFreed() uintptr     { return uintptr(a.totalFree.Load()) }
func (a *Arena) ActiveAllocations() int  { return int(a.activeCount.Load()) }
func (a *Arena) Reset()                  {}

// Stats is the Arena's own counter snapshot, returned by Snapshot. Unlike
// allocator.AllocatorStats (returned by the Stats method) it also reports
// how many regions the arena has mapped.
type Stats struct {
	TotalAllocated    uintptr
	TotalFreed        uintptr
	ActiveAllocations int
	AllocationCount   uint64
	FreeCount         uint64
	RegionCount       int
}

// Stats implements allocator.Allocator's Stats method, so an Arena can be
// used anywhere the rest of this repo expects an allocator.Allocator.
func (a *Arena) Stats() allocator.AllocatorStats {
	snap := a.Snapshot()
	var systemMemory uintptr

	a.mu.Lock()
	for _, r := range a.regions {
		systemMemory += r.capacity
	}
	a.mu.Unlock()

	return allocator.AllocatorStats{
		TotalAllocated:    snap.TotalAllocated,
		TotalFreed:        snap.TotalFreed,
		ActiveAllocations: snap.ActiveAllocations,
		AllocationCount:   snap.AllocationCount,
		FreeCount:         snap.FreeCount,
		BytesInUse:        snap.TotalAllocated - snap.TotalFreed,
		SystemMemory:      systemMemory,
	}
}

func (a *Arena) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Stats{
		TotalAllocated:    uintptr(a.totalAlloc.Load()),
		TotalFreed:        uintptr(a.totalFree.Load()),
		ActiveAllocations: int(a.activeCount.Load()),
		AllocationCount:   a.allocCount.Load(),
		FreeCount:         a.freeCount.Load(),
		RegionCount:       len(a.regions),
	}
}

// Close unmaps every region owned by the arena.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error

	for _, r := range a.regions {
		if err := r.unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.regions = nil

	return firstErr
}

func (r *Region) alloc(size uintptr) unsafe.Pointer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var prev *freeBlock

	for fb := r.free; fb != nil; fb = fb.next {
		if fb.size >= size {
			if prev == nil {
				r.free = fb.next
			} else {
				prev.next = fb.next
			}

			r.allocs++

			return unsafe.Pointer(fb)
		}

		prev = fb
	}

	if r.offset+size > r.capacity {
		return nil
	}

	p := unsafe.Pointer(&r.mem[r.offset])
	r.offset += size
	r.allocs++

	return p
}

func (r *Region) free(ptr unsafe.Pointer, size uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fb := (*freeBlock)(ptr)
	fb.size = size
	fb.next = r.free
	r.free = fb
	r.frees++
}

func (r *Region) owns(ptr unsafe.Pointer) bool {
	if len(r.mem) == 0 {
		return false
	}

	start := uintptr(unsafe.Pointer(&r.mem[0]))
	end := start + uintptr(len(r.mem))
	p := uintptr(ptr)

	return p >= start && p < end
}

func alignUp(size, align uintptr) uintptr {
	return (size + align - 1) &^ (align - 1)
}

func fmtErr(op string, err error) error {
	return fmt.Errorf("region: %s: %w", op, err)
}
