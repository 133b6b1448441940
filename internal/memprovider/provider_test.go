package memprovider

import (
	"errors"
	"testing"

	stderrors "github.com/orizon-lang/critnib/internal/errors"
)

func TestAllocFreeLifecycle(t *testing.T) {
	p, err := Open("1.0.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	addr, err := p.Alloc(128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	if p.LiveCount() != 1 {
		t.Fatalf("LiveCount = %d, want 1", p.LiveCount())
	}

	info, ok := p.Lookup(addr)
	if !ok || info.Size != 128 {
		t.Fatalf("Lookup(%#x) = %+v, %v; want size 128, true", addr, info, ok)
	}

	if err := p.Free(addr); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if p.LiveCount() != 0 {
		t.Fatalf("LiveCount after Free = %d, want 0", p.LiveCount())
	}

	if _, ok := p.Lookup(addr); ok {
		t.Fatal("Lookup still finds address after Free")
	}
}

func TestFreeUnknownAddressReturnsNotFound(t *testing.T) {
	p, err := Open("1.0.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	var target *stderrors.StandardError

	err = p.Free(0xdeadbeef)
	if !errors.As(err, &target) || target.Category != stderrors.CategoryNotFound {
		t.Fatalf("Free(unknown) = %v, want CategoryNotFound StandardError", err)
	}
}

func TestOpenRejectsIncompatibleVersion(t *testing.T) {
	if _, err := Open("3.0.0"); err == nil {
		t.Fatal("Open(3.0.0) = nil error, want version mismatch")
	}
}

func TestContainingResolvesAddressInsideAllocation(t *testing.T) {
	p, err := Open("1.0.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	addr, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	info, ok := p.Containing(addr + 16)
	if !ok || info.Address != addr {
		t.Fatalf("Containing(addr+16) = %+v, %v; want allocation at %#x", info, ok, addr)
	}

	if _, ok := p.Containing(addr + 1000); ok {
		t.Fatal("Containing reported a hit far outside the allocation's range")
	}
}

func TestSnapshotReturnsBoundedRange(t *testing.T) {
	p, err := Open("1.0.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	for i := 0; i < 4; i++ {
		if _, err := p.Alloc(32); err != nil {
			t.Fatalf("Alloc: %v", err)
		}
	}

	snap := p.Snapshot(0, ^uint64(0))
	if len(snap) != 4 {
		t.Fatalf("Snapshot returned %d entries, want 4", len(snap))
	}
}
