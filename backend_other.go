//go:build !(linux || darwin || freebsd)

package arena

// MmapBackend falls back to the Go heap on platforms without anonymous
// mappings.
type MmapBackend struct{}

func (MmapBackend) Acquire(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (MmapBackend) Release(buf []byte) {}
