package nodestore

// expand rebuilds the slot table at a new prime capacity sized off the
// current occupancy, migrating every live entry (tombstones are dropped,
// not migrated) into the new array. Must be called with s.mu held.
//
// It is invoked from two call sites: Insert calls it pre-emptively once
// load >= 0.75, Remove calls it post-hoc once the table is very empty
// (load < 0.125 and capacity > 32). The early-return guard below skips the
// rebuild while count*2 < capacity and either count*8 > capacity or the
// capacity is at most minCapacity. It never fires for Insert's call; for
// Remove's call it fires when the capacity is already at most minCapacity.
func (s *Store) expand() error {
	old := s.tbl.Load()
	oldSize := old.capacity()
	count := uint32(s.count)

	if count*2 < oldSize && (count*8 > oldSize || oldSize <= minCapacity) {
		return nil
	}

	nindex := higherPrimeIndex(count * 2)
	nt := newTable(nindex)

	for i := uint32(0); i < oldSize; i++ {
		p := old.loadSlot(i)
		if p == nil || p == tombstoneSlot {
			continue
		}
		e := (*entry)(p)
		idx, outcome := findFreeForInsert(nt, e.hash, e.node.NodeId)
		if outcome != probeFoundFree {
			// Every live entry is distinct and the new table is sized to
			// hold at least 2x count with room to spare; this cannot happen.
			panic("nodestore: resize could not place entry in new table")
		}
		nt.storeSlot(idx, p)
	}

	if nt.capacity() > oldSize {
		s.growths++
	} else {
		s.shrinks++
	}
	s.tbl.Store(nt)
	return nil
}
