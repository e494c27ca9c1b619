package arena

import (
	"github.com/bytedance/sonic"
	"github.com/zeebo/xxh3"
)

type blockDump struct {
	Used   int    `json:"used"`
	Avail  int    `json:"avail"`
	Root   bool   `json:"root,omitempty"`
	Digest uint64 `json:"digest"`
}

type arenaDump struct {
	Stats  Stats       `json:"stats"`
	Blocks []blockDump `json:"blocks"`
}

// MarshalJSON renders a diagnostic snapshot of the arena: the stats
// plus per-block accounting in cache order, each block carrying an
// xxh3 digest of its handed-out region so two snapshots can be diffed
// without dumping the memory itself.
func (a *Arena) MarshalJSON() ([]byte, error) {
	dump := arenaDump{
		Stats:  a.Stats(),
		Blocks: make([]blockDump, 0, a.cache.count),
	}
	for b := a.cache.head; b != nil; b = b.next {
		dump.Blocks = append(dump.Blocks, blockDump{
			Used:   b.used,
			Avail:  b.avail,
			Root:   b == a.cache.root,
			Digest: xxh3.Hash(b.buf[blockOverhead:b.used]),
		})
	}
	return sonic.Marshal(dump)
}
