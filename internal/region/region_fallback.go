//go:build !linux && !darwin

package region

const pageSize = 4096

func roundToPage(size uintptr) uintptr {
	return alignUp(size, pageSize)
}

// newRegion falls back to a heap-backed slice on platforms without an
// anonymous-mmap syscall wired up (golang.org/x/sys/unix only covers
// Unix). The allocator interface this satisfies is identical either way;
// only the backing memory's relationship to the GC differs.
func newRegion(id ID, size uintptr) (*Region, error) {
	return &Region{id: id, mem: make([]byte, size), capacity: size}, nil
}

func (r *Region) unmap() error {
	r.mem = nil

	return nil
}
