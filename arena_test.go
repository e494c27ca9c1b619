package arena

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failBackend fails every acquire.
type failBackend struct{}

func (failBackend) Acquire(size int) ([]byte, error) {
	return nil, errors.New("backend: out of memory")
}

func (failBackend) Release(buf []byte) {}

// countdownBackend serves a fixed number of acquires, then fails.
type countdownBackend struct {
	heapBackend
	left int
}

func (b *countdownBackend) Acquire(size int) ([]byte, error) {
	if b.left == 0 {
		return nil, errors.New("backend: out of memory")
	}
	b.left--
	return b.heapBackend.Acquire(size)
}

// recordBackend records the size of every acquire and release.
type recordBackend struct {
	heapBackend
	acquired []int
	released []int
}

func (b *recordBackend) Acquire(size int) ([]byte, error) {
	b.acquired = append(b.acquired, size)
	return b.heapBackend.Acquire(size)
}

func (b *recordBackend) Release(buf []byte) {
	b.released = append(b.released, len(buf))
}

// requireSorted asserts the descending-avail adjacency invariant.
func requireSorted(t *testing.T, a *Arena) {
	t.Helper()
	for b := a.cache.head; b != nil; b = b.next {
		if b.next != nil && b.avail < b.next.avail {
			t.Fatalf("cache out of order: %d before %d", b.avail, b.next.avail)
		}
		if b.prev == nil && a.cache.head != b {
			t.Fatal("broken head link")
		}
	}
}

func TestNewRootBlock(t *testing.T) {
	assert := assert.New(t)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	stat := a.Stats()
	assert.Equal(1, stat.Blocks)
	assert.Equal(blockOverhead, stat.Used)
	assert.Equal(4096-2*blockOverhead, stat.Avail)
	assert.Equal(a.cache.head, a.cache.root)
}

func TestAllocSameRootBlock(t *testing.T) {
	assert := assert.New(t)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	before := a.Stats()

	buf1, err := a.Alloc(100)
	assert.NoError(err)
	assert.Len(buf1, 100)

	buf2, err := a.Alloc(50)
	assert.NoError(err)
	assert.Len(buf2, 50)

	after := a.Stats()
	assert.Equal(1, after.Blocks)
	assert.Equal(before.Used+150, after.Used)
	assert.Equal(before.Avail-150, after.Avail)

	// both carved from the root block, back to back
	assert.Same(&a.cache.root.buf[blockOverhead], &buf1[0])
	assert.Same(&a.cache.root.buf[blockOverhead+100], &buf2[0])
}

func TestAllocOversized(t *testing.T) {
	assert := assert.New(t)

	backend := &recordBackend{}
	a, err := New(Options{BlockSize: 4096, Backend: backend})
	require.NoError(t, err)
	defer a.Release()

	buf, err := a.Alloc(100000)
	assert.NoError(err)
	assert.Len(buf, 100000)

	// a dedicated exact-fit block, not a failure
	assert.Equal([]int{4096 - blockOverhead, 100000 + blockOverhead}, backend.acquired)

	stat := a.Stats()
	assert.Equal(2, stat.Blocks)

	// the drained block sank behind the root
	assert.Equal(0, a.cache.tail.avail)
	assert.Equal(a.cache.root, a.cache.head)
	requireSorted(t, a)
}

func TestBlockGrowthSequence(t *testing.T) {
	assert := assert.New(t)

	backend := &recordBackend{}
	a, err := New(Options{BlockSize: 4096, Backend: backend})
	require.NoError(t, err)
	defer a.Release()

	// each request exceeds every held block but stays under the next
	// growth target, so no oversize override kicks in
	for _, size := range []int{5000, 10000, 20000} {
		_, err := a.Alloc(size)
		assert.NoError(err)
	}

	want := []int{
		4096<<0 - blockOverhead,
		4096<<1 - blockOverhead,
		4096<<2 - blockOverhead,
		4096<<3 - blockOverhead,
	}
	assert.Equal(want, backend.acquired)
}

func TestTotalUsedAccounting(t *testing.T) {
	assert := assert.New(t)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	sum := 0
	for _, size := range []int{100, 50, 5000, 1, 4000, 64} {
		_, err := a.Alloc(size)
		assert.NoError(err)
		sum += size
	}

	stat := a.Stats()
	assert.Equal(sum+blockOverhead*stat.Blocks, stat.Used)
	assert.Equal(stat.Capacity, stat.Used+stat.Avail)
}

func TestAllocNilAndInvalid(t *testing.T) {
	assert := assert.New(t)

	var nilArena *Arena
	_, err := nilArena.Alloc(10)
	assert.ErrorIs(err, ErrNilArena)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	_, err = a.Alloc(0)
	assert.Error(err)
	_, err = a.Alloc(-5)
	assert.Error(err)
}

func TestBackendFailure(t *testing.T) {
	assert := assert.New(t)

	// initialization itself fails
	_, err := New(Options{BlockSize: 4096, Backend: failBackend{}})
	assert.Error(err)

	// a live arena whose backend dries up: the failed provisioning
	// leaves the cache untouched and the arena usable
	a, err := New(Options{BlockSize: 4096, Backend: &countdownBackend{left: 1}})
	require.NoError(t, err)

	before := a.Stats()
	_, err = a.Alloc(100000)
	assert.Error(err)
	assert.Equal(before, a.Stats())

	buf, err := a.Alloc(100)
	assert.NoError(err)
	assert.Len(buf, 100)
}

func TestBadOptions(t *testing.T) {
	_, err := New(Options{BlockSize: 0})
	assert.Error(t, err)

	_, err = New(Options{BlockSize: blockOverhead})
	assert.Error(t, err)
}

func TestRelease(t *testing.T) {
	assert := assert.New(t)

	backend := &recordBackend{}
	a, err := New(Options{BlockSize: 4096, Backend: backend})
	require.NoError(t, err)

	_, err = a.Alloc(100000)
	assert.NoError(err)
	rootSize := len(a.cache.root.buf)

	a.Release()
	assert.ElementsMatch(backend.acquired, backend.released)

	// root released exactly once, and last
	assert.Len(backend.released, 2)
	assert.Equal(rootSize, backend.released[len(backend.released)-1])

	_, err = a.Alloc(10)
	assert.ErrorIs(err, ErrReleased)

	// double release is a no-op
	a.Release()
	assert.Len(backend.released, 2)
}

func TestAllocSortedInvariant(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	for i := 0; i < 5000; i++ {
		size := gofakeit.Number(1, 2000)
		if _, err := a.Alloc(size); err != nil {
			t.Fatal(err)
		}
		requireSorted(t, a)
	}
}

func TestAllocNoAliasing(t *testing.T) {
	assert := assert.New(t)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	bufs := make([][]byte, 0, 2048)
	for i := 0; i < 2048; i++ {
		buf, err := a.Alloc(gofakeit.Number(1, 512))
		assert.NoError(err)
		for j := range buf {
			buf[j] = byte(i)
		}
		bufs = append(bufs, buf)
	}

	// had any two allocations overlapped, a later fill would have
	// clobbered an earlier pattern
	for i, buf := range bufs {
		for _, v := range buf {
			if v != byte(i) {
				t.Fatalf("allocation %d corrupted: got %d", i, v)
			}
		}
	}
}

func TestAllocAddressStability(t *testing.T) {
	assert := assert.New(t)

	a, err := Default()
	require.NoError(t, err)
	defer a.Release()

	first, err := a.Alloc(16)
	assert.NoError(err)
	addr := &first[0]
	copy(first, "stable")

	// block churn must never move handed-out bytes
	for i := 0; i < 1000; i++ {
		_, err := a.Alloc(3000)
		assert.NoError(err)
	}

	assert.Same(addr, &first[0])
	assert.Equal("stable", string(first[:6]))
}

func TestAllocMmapBackend(t *testing.T) {
	assert := assert.New(t)

	a, err := New(Options{BlockSize: 4096, Backend: MmapBackend{}})
	require.NoError(t, err)
	defer a.Release()

	buf, err := a.Alloc(100)
	assert.NoError(err)
	copy(buf, "mapped")
	assert.Equal("mapped", string(buf[:6]))
}
