package arena

// Backend is the allocation source blocks are carved from. Acquire
// returns a buffer of exactly size bytes or an error; Release takes
// back a buffer previously returned by Acquire. Implementations carry
// whatever state they need, the arena never looks inside.
//
// A Backend is called once per block, not once per allocation, so a
// slow Acquire is amortized over the whole block.
type Backend interface {
	Acquire(size int) ([]byte, error)
	Release(buf []byte)
}

// heapBackend serves blocks from the Go heap. Substituted whenever the
// caller provides no backend of their own.
type heapBackend struct{}

func (heapBackend) Acquire(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (heapBackend) Release(buf []byte) {}

// HeapBackend returns the default backend, backed by the Go heap.
func HeapBackend() Backend { return heapBackend{} }
