package region

import (
	"testing"

	"github.com/orizon-lang/critnib/internal/allocator"
)

var _ allocator.Allocator = (*Arena)(nil)

func TestArenaAllocFree(t *testing.T) {
	a := NewArena(4096)
	defer a.Close()

	ptr := a.Alloc(128)
	if ptr == nil {
		t.Fatal("Alloc(128) returned nil")
	}

	data := (*[128]byte)(ptr)
	for i := range data {
		data[i] = byte(i)
	}

	for i := range data {
		if data[i] != byte(i) {
			t.Fatalf("data corruption at index %d", i)
		}
	}

	a.FreeSized(ptr, 128)

	stats := a.Snapshot()
	if stats.AllocationCount != 1 || stats.FreeCount != 1 {
		t.Fatalf("Snapshot() = %+v, want 1 alloc and 1 free", stats)
	}
}

func TestArenaGrowsAcrossRegions(t *testing.T) {
	// NewArena rounds 64 up to one 4096-byte page, so 512 16-byte blocks
	// fill exactly two regions.
	a := NewArena(64)
	defer a.Close()

	for i := 0; i < 512; i++ {
		if p := a.Alloc(16); p == nil {
			t.Fatalf("Alloc(16) #%d returned nil", i)
		}
	}

	stats := a.Snapshot()
	if stats.RegionCount < 2 {
		t.Fatalf("Snapshot().RegionCount = %d, want at least 2 after overflowing one region", stats.RegionCount)
	}
}

func TestArenaZeroSizeAllocReturnsNil(t *testing.T) {
	a := NewArena(4096)
	defer a.Close()

	if ptr := a.Alloc(0); ptr != nil {
		t.Fatal("Alloc(0) should return nil")
	}
}

func TestArenaStatsMatchesAllocatorInterface(t *testing.T) {
	a := NewArena(4096)
	defer a.Close()

	ptr := a.Alloc(64)
	if ptr == nil {
		t.Fatal("Alloc(64) returned nil")
	}

	var backing allocator.Allocator = a

	stats := backing.Stats()
	if stats.TotalAllocated == 0 {
		t.Fatal("Stats().TotalAllocated = 0 after a successful Alloc")
	}

	if backing.ActiveAllocations() != 1 {
		t.Fatalf("ActiveAllocations() = %d, want 1", backing.ActiveAllocations())
	}
}
