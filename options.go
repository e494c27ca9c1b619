package arena

import "github.com/cockroachdb/errors"

// Options is the configuration of an Arena.
type Options struct {
	// BlockSize is the base unit of the block growth curve: the Nth
	// auto-created block targets (BlockSize << N) - blockOverhead
	// bytes, so long-lived arenas amortize backend calls while small
	// ones stay cheap.
	BlockSize int

	// Backend supplies block memory. Nil selects the heap backend.
	Backend Backend
}

// DefaultOptions
var DefaultOptions = Options{
	BlockSize: 4096,
}

func checkOptions(options Options) error {
	if options.BlockSize <= blockOverhead {
		return errors.Newf("arena: block size %d must exceed the per-block overhead %d",
			options.BlockSize, blockOverhead)
	}
	return nil
}
