package nodestore

import "fmt"

// Stats is a diagnostic snapshot of the slot table. Intended for
// diagnostics and tests, not for hot-path use: taking it walks the whole
// table under the writer lock.
type Stats struct {
	Count      int
	Capacity   int
	Tombstones int
	LoadFactor float64
	Growths    uint32
	Shrinks    uint32
}

// Stats computes a Stats snapshot. It takes the writer lock, so it
// serializes with (and briefly blocks) Insert/Replace/Remove/Clear.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tbl.Load()
	tableCap := t.capacity()

	st := Stats{
		Count:    s.count,
		Capacity: int(tableCap),
		Growths:  s.growths,
		Shrinks:  s.shrinks,
	}
	for i := uint32(0); i < tableCap; i++ {
		if t.loadSlot(i) == tombstoneSlot {
			st.Tombstones++
		}
	}
	if tableCap > 0 {
		st.LoadFactor = float64(st.Count) / float64(tableCap)
	}
	return st
}

// String renders the snapshot for logs and test failures, mirroring
// MapStats.ToString's plain key: value layout.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats{Count: %d, Capacity: %d, Tombstones: %d, LoadFactor: %.4f, Growths: %d, Shrinks: %d}",
		s.Count, s.Capacity, s.Tombstones, s.LoadFactor, s.Growths, s.Shrinks,
	)
}
