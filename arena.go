// Package arena implements a region-based memory allocator: many
// small, short-lived allocations are carved out of a few large backend
// blocks by bump allocation, and released together when the whole
// arena is released. Individual allocations are never freed.
package arena

import "github.com/cockroachdb/errors"

// blockOverhead is the fixed per-block bookkeeping cost. The first
// blockOverhead bytes of every backend buffer are reserved and never
// handed out, and every block starts with used == blockOverhead.
const blockOverhead = 32

var (
	// ErrNilArena is returned when allocating from a nil arena.
	ErrNilArena = errors.New("arena: nil arena")

	// ErrReleased is returned when allocating from a released arena.
	ErrReleased = errors.New("arena: use after release")
)

// Arena is a region allocator. Not goroutine-safe; wrap it in a
// SafeArena for concurrent use.
type Arena struct {
	backend   Backend
	cache     blockCache
	blockSize int
	released  bool
}

// New creates a live Arena and provisions its root block through the
// normal growth path. A backend failure on the root block fails
// construction and leaves nothing allocated.
func New(options Options) (*Arena, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}

	backend := options.Backend
	if backend == nil {
		backend = heapBackend{}
	}

	a := &Arena{backend: backend, blockSize: options.BlockSize}
	b, err := a.createBlock(0)
	if err != nil {
		return nil, err
	}
	a.cache.insert(b)
	return a, nil
}

// Default creates an Arena with DefaultOptions.
func Default() (*Arena, error) {
	return New(DefaultOptions)
}

// createBlock acquires a backend buffer able to serve at least min
// usable bytes. The target doubles with every block already held; a
// request larger than the target gets a dedicated exact-fit buffer
// instead.
func (a *Arena) createBlock(min int) (*block, error) {
	shift := a.cache.count
	if shift > 31 {
		shift = 31
	}
	size := a.blockSize<<shift - blockOverhead
	if min+blockOverhead > size {
		size = min + blockOverhead
	}

	buf, err := a.backend.Acquire(size)
	if err != nil {
		return nil, errors.Wrapf(err, "arena: acquire block of %d bytes", size)
	}
	if len(buf) != size {
		panic("arena: backend returned short buffer")
	}

	return &block{buf: buf, used: blockOverhead, avail: size - blockOverhead}, nil
}

// Alloc returns size usable bytes carved from a single block,
// provisioning a new block when no held block has room. The slice
// stays valid, at a stable address, until Release.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if a == nil {
		return nil, ErrNilArena
	}
	if a.released {
		return nil, ErrReleased
	}
	if size <= 0 {
		return nil, errors.Newf("arena: invalid allocation size %d", size)
	}

	b := a.cache.find(size)
	if b == nil {
		// no block large enough, grow. A failed acquire leaves the
		// cache untouched.
		nb, err := a.createBlock(size)
		if err != nil {
			return nil, err
		}
		a.cache.insert(nb)
		b = nb
	}

	return a.cache.allocFrom(b, size), nil
}

// Release returns every block's buffer to the backend exactly once,
// the root block last, and makes the arena unusable. Release on a nil
// or already-released arena is a no-op.
func (a *Arena) Release() {
	if a == nil || a.released {
		return
	}

	root := a.cache.root
	for b := a.cache.head; b != nil; {
		next := b.next
		if b != root {
			a.backend.Release(b.buf)
		}
		b = next
	}
	if root != nil {
		a.backend.Release(root.buf)
	}

	a.cache = blockCache{}
	a.released = true
}
