// Package memprovider is a small illustrative memory provider built on
// top of critnib: it hands out addresses from an allocator.Allocator and
// indexes every live allocation by its address in a critnib.Map, so a
// Lookup can answer "what allocation (if any) contains this address" with
// a single predecessor search instead of a linear scan.
package memprovider

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/orizon-lang/critnib/internal/allocator"
	"github.com/orizon-lang/critnib/internal/compat"
	"github.com/orizon-lang/critnib/internal/critnib"
	stderrors "github.com/orizon-lang/critnib/internal/errors"
	"github.com/orizon-lang/critnib/internal/region"
)

// defaultRegionSize is the mmap chunk an Arena grows by when its regions
// run out of room for a new allocation.
const defaultRegionSize = 1 << 20

// AllocationInfo describes one live allocation tracked by a Provider.
type AllocationInfo struct {
	Address uint64
	Size    uint64
}

// Provider allocates memory and tracks the result in an ordered index
// keyed by address, so ranges of addresses can be queried in O(log n)
// instead of scanning every live allocation.
type Provider struct {
	backing allocator.Allocator
	index   *critnib.Map[*AllocationInfo]
	live    atomic.Int64
}

// Open constructs a Provider after checking that apiVersion is one this
// build knows how to drive.
func Open(apiVersion string) (*Provider, error) {
	if err := compat.RequireAPIVersion(apiVersion, ""); err != nil {
		return nil, err
	}

	return &Provider{
		backing: region.NewArena(defaultRegionSize),
		index:   critnib.New[*AllocationInfo](),
	}, nil
}

// Alloc reserves size bytes and returns the address it was placed at.
func (p *Provider) Alloc(size uint64) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("memprovider: zero-size allocation")
	}

	ptr := p.backing.Alloc(uintptr(size))
	if ptr == nil {
		return 0, stderrors.OutOfMemory(fmt.Sprintf("allocator exhausted for size %d", size))
	}

	addr := uint64(uintptr(ptr))
	info := &AllocationInfo{Address: addr, Size: size}

	if err := p.index.Insert(addr, info, false); err != nil {
		p.backing.Free(ptr)

		return 0, stderrors.KeyExists(addr)
	}

	p.live.Add(1)

	return addr, nil
}

// Free releases the allocation at addr. It is an error to free an address
// that was not returned by Alloc.
func (p *Provider) Free(addr uint64) error {
	info, err := p.index.Remove(addr)
	if err != nil {
		return stderrors.KeyNotFound(addr)
	}

	ptr := unsafe.Pointer(uintptr(info.Address))
	if sf, ok := p.backing.(interface {
		FreeSized(unsafe.Pointer, uintptr)
	}); ok {
		sf.FreeSized(ptr, uintptr(info.Size))
	} else {
		p.backing.Free(ptr)
	}

	p.live.Add(-1)

	return nil
}

// Lookup reports the allocation (if any) whose address exactly matches
// addr, along with whether it was found.
func (p *Provider) Lookup(addr uint64) (*AllocationInfo, bool) {
	return p.index.Get(addr)
}

// Containing reports the allocation with the greatest address <= addr
// whose range [Address, Address+Size) contains addr, if any. This is the
// query an out-of-band pointer (eg from a crash report) needs answered.
func (p *Provider) Containing(addr uint64) (*AllocationInfo, bool) {
	_, info, ok := p.index.Find(addr, critnib.LessOrEqual)
	if !ok {
		return nil, false
	}

	if addr >= info.Address && addr < info.Address+info.Size {
		return info, true
	}

	return nil, false
}

// Snapshot returns every tracked allocation with address in [min, max].
func (p *Provider) Snapshot(min, max uint64) []*AllocationInfo {
	var out []*AllocationInfo

	p.index.Iterate(min, max, func(_ uint64, info *AllocationInfo) bool {
		out = append(out, info)

		return false
	})

	return out
}

// LiveCount reports the number of allocations currently tracked.
func (p *Provider) LiveCount() int64 {
	return p.live.Load()
}

// closer is implemented by allocator.Allocator backends that hold real OS
// resources (eg an mmap-backed region.Arena) and need an explicit release.
type closer interface {
	Close() error
}

// Close tears down the provider's index and, if the backing allocator
// holds OS resources (an mmap-backed Arena), releases those too.
func (p *Provider) Close() {
	p.index.Close()

	if c, ok := p.backing.(closer); ok {
		_ = c.Close()
	}
}
