package arena

// Stats is a point-in-time snapshot of an arena's block accounting.
// Used counts every byte handed out plus the fixed per-block overhead;
// the counters come straight from the cache's running sums.
type Stats struct {
	Blocks   int `json:"blocks"`
	Used     int `json:"used"`
	Avail    int `json:"avail"`
	Capacity int `json:"capacity"`

	// Utilization is Used over Capacity, 0 when the arena holds
	// nothing.
	Utilization float64 `json:"utilization"`
}

// Stats returns a snapshot of the arena. Safe on a nil or released
// arena, which report zeroes.
func (a *Arena) Stats() (stat Stats) {
	if a == nil {
		return
	}
	stat.Blocks = a.cache.count
	stat.Used = a.cache.totalUsed
	stat.Avail = a.cache.totalAvail
	stat.Capacity = stat.Used + stat.Avail
	if stat.Capacity > 0 {
		stat.Utilization = float64(stat.Used) / float64(stat.Capacity)
	}
	return
}

func (s Stats) add(o Stats) Stats {
	s.Blocks += o.Blocks
	s.Used += o.Used
	s.Avail += o.Avail
	s.Capacity += o.Capacity
	if s.Capacity > 0 {
		s.Utilization = float64(s.Used) / float64(s.Capacity)
	} else {
		s.Utilization = 0
	}
	return s
}
