//go:build linux || darwin || freebsd

package arena

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// MmapBackend serves blocks from anonymous private mappings, keeping
// arena memory entirely outside the Go heap. Buffers are returned to
// the kernel on Release.
type MmapBackend struct{}

func (MmapBackend) Acquire(size int) ([]byte, error) {
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "arena: mmap %d bytes", size)
	}
	return buf, nil
}

func (MmapBackend) Release(buf []byte) {
	_ = unix.Munmap(buf)
}
