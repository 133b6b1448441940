package critnib

import "errors"

// ErrExists is returned by Insert when the key is already present and the
// caller did not ask for an update.
var ErrExists = errors.New("critnib: key already exists")

// ErrNotFound is returned by Remove when the key is not present.
var ErrNotFound = errors.New("critnib: key not found")

// ErrOutOfMemory is kept for interface fidelity with the C allocator this
// tree was modeled on. Go's runtime allocator does not fail allocation the
// way malloc can, so nothing in this package currently returns it; a
// future arena-backed node pool (see internal/region) could.
var ErrOutOfMemory = errors.New("critnib: out of memory")
