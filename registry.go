package arena

import (
	"sync"

	"github.com/tidwall/hashmap"
)

// Process-wide registry of named arenas. Hosts that carve one arena
// per subsystem register them here so overall memory use can be
// inspected in one place.
var (
	registryMu sync.RWMutex
	registry   = hashmap.New[string, *Arena](8)
)

// Register adds a under name, replacing any previous entry.
func Register(name string, a *Arena) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Set(name, a)
}

// Unregister removes the named arena from the registry. It does not
// release the arena. Reports whether an entry existed.
func Unregister(name string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	_, ok := registry.Delete(name)
	return ok
}

// Lookup returns the named arena.
func Lookup(name string) (*Arena, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry.Get(name)
}

// Registered returns the names of all registered arenas.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry.Keys()
}

// RegisteredStats sums the stats of every registered arena.
func RegisteredStats() Stats {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var total Stats
	registry.Scan(func(name string, a *Arena) bool {
		total = total.add(a.Stats())
		return true
	})
	return total
}
