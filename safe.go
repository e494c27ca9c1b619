package arena

import "sync"

// SafeArena is a mutex-protected wrapper around Arena. The core arena
// is single-threaded on purpose; this is the external mutual-exclusion
// wrapper for callers that share one arena across goroutines.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafe creates a mutex-protected arena.
func NewSafe(options Options) (*SafeArena, error) {
	a, err := New(options)
	if err != nil {
		return nil, err
	}
	return &SafeArena{a: a}, nil
}

// Alloc allocates size bytes under the lock.
func (s *SafeArena) Alloc(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(size)
}

// Stats returns a snapshot under the lock.
func (s *SafeArena) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Release releases the underlying arena under the lock.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// MarshalJSON renders the diagnostic snapshot under the lock.
func (s *SafeArena) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.MarshalJSON()
}
