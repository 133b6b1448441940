//go:build linux || darwin

package region

import (
	"golang.org/x/sys/unix"
)

const pageSize = 4096

func roundToPage(size uintptr) uintptr {
	return alignUp(size, pageSize)
}

func newRegion(id ID, size uintptr) (*Region, error) {
	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmtErr("mmap", err)
	}

	return &Region{id: id, mem: mem, capacity: size}, nil
}

func (r *Region) unmap() error {
	if len(r.mem) == 0 {
		return nil
	}

	if err := unix.Munmap(r.mem); err != nil {
		return fmtErr("munmap", err)
	}

	r.mem = nil

	return nil
}
