package nodestore

import (
	"fmt"
	"testing"
)

func insertVariable(t *testing.T, s *Store, id NodeId) NodeId {
	t.Helper()
	n := s.NewNode(VariableNode)
	n.NodeId = id
	n.BrowseName = fmt.Sprintf("n%d/%d", id.Namespace, id.Numeric)
	got, err := s.Insert(n)
	if err != nil {
		t.Fatalf("Insert(%v): %v", id, err)
	}
	return got
}

func TestExpand_NoopInsideThresholds(t *testing.T) {
	s := NewStore()
	for i := uint32(1); i <= 30; i++ { // between 1/8 and 3/4 of 127
		insertVariable(t, s, NumericNodeId(1, i))
	}
	before := s.Stats()
	s.mu.Lock()
	err := s.expand()
	s.mu.Unlock()
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	after := s.Stats()
	if after.Capacity != before.Capacity || after.Growths != before.Growths || after.Shrinks != before.Shrinks {
		t.Fatalf("expand rebuilt inside thresholds: before %v, after %v", before, after)
	}
}

func TestExpand_GrowsAtHighWater(t *testing.T) {
	s := NewStore()
	initial := s.Stats().Capacity

	// Crossing 0.75 load makes the next insert grow the table first.
	n := initial*3/4 + 2
	for i := 1; i <= n; i++ {
		insertVariable(t, s, NumericNodeId(1, uint32(i)))
	}

	st := s.Stats()
	if st.Capacity <= initial {
		t.Fatalf("capacity %d did not grow past %d", st.Capacity, initial)
	}
	if st.Growths == 0 {
		t.Fatal("no growth recorded")
	}

	// Every key inserted before the rebuild must still resolve.
	for i := 1; i <= n; i++ {
		id := NumericNodeId(1, uint32(i))
		node, ok := s.Get(id)
		if !ok {
			t.Fatalf("key %v lost across grow", id)
		}
		if !node.NodeId.Equal(id) {
			t.Fatalf("key %v resolved to node %v", id, node.NodeId)
		}
		s.Release(node)
	}
}

func TestExpand_ShrinksBelowLowWater(t *testing.T) {
	s := NewStore()
	initial := s.Stats().Capacity

	for i := uint32(1); i <= 8; i++ {
		insertVariable(t, s, NumericNodeId(1, i))
	}
	for i := uint32(1); i <= 7; i++ {
		if err := s.Remove(NumericNodeId(1, i)); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	}

	st := s.Stats()
	if st.Capacity >= initial {
		t.Fatalf("capacity %d did not shrink from %d: %v", st.Capacity, initial, st)
	}
	if st.Shrinks == 0 {
		t.Fatal("no shrink recorded")
	}

	keep := NumericNodeId(1, 8)
	node, ok := s.Get(keep)
	if !ok {
		t.Fatalf("surviving key %v lost across shrink", keep)
	}
	s.Release(node)
}

func TestExpand_DropsTombstones(t *testing.T) {
	s := NewStore()
	initial := s.Stats().Capacity
	n := initial * 3 / 4 // stay below the grow trigger while piling up tombstones
	for i := 1; i <= n; i++ {
		insertVariable(t, s, NumericNodeId(1, uint32(i)))
	}
	for i := 1; i <= n/2; i++ {
		if err := s.Remove(NumericNodeId(1, uint32(i))); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	}
	// Two more inserts cross the high-water mark counted over live entries
	// plus tombstones only if tombstones were wrongly counted; they are
	// not, so this grows only when count itself crosses. Force a rebuild by
	// inserting back up over the threshold and verify no tombstone
	// migrated.
	for i := n + 1; uint32(s.Stats().Tombstones) > 0 && i < n*4; i++ {
		insertVariable(t, s, NumericNodeId(1, uint32(i)))
	}
	if tomb := s.Stats().Tombstones; tomb != 0 {
		t.Fatalf("%d tombstones survived the rebuild", tomb)
	}
}

func TestRebuild_BindingsUnchanged(t *testing.T) {
	// The same operation sequence must yield the same bindings whether or
	// not extra rebuilds intervene; call expand on one store after every
	// mutation (it rebuilds whenever its guard lets it) and compare against
	// a presized store that resizes only through Insert and Remove.
	forced := NewStore()
	plain := NewStore(WithInitialCapacity(4096))

	var kept []NodeId
	for i := uint32(1); i <= 200; i++ {
		id := NumericNodeId(2, i)
		insertVariable(t, forced, id)
		insertVariable(t, plain, id)
		if i%3 == 0 {
			if err := forced.Remove(id); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := plain.Remove(id); err != nil {
				t.Fatalf("Remove: %v", err)
			}
		} else {
			kept = append(kept, id)
		}
		forced.mu.Lock()
		if err := forced.expand(); err != nil {
			forced.mu.Unlock()
			t.Fatalf("expand: %v", err)
		}
		forced.mu.Unlock()
	}

	if f, p := forced.Stats().Count, plain.Stats().Count; f != p || f != len(kept) {
		t.Fatalf("counts diverge: forced %d, plain %d, want %d", f, p, len(kept))
	}
	for _, id := range kept {
		fn, ok := forced.Get(id)
		if !ok {
			t.Fatalf("forced store lost %v", id)
		}
		pn, ok := plain.Get(id)
		if !ok {
			t.Fatalf("plain store lost %v", id)
		}
		if fn.BrowseName != pn.BrowseName {
			t.Fatalf("stores diverge at %v: %q vs %q", id, fn.BrowseName, pn.BrowseName)
		}
		forced.Release(fn)
		plain.Release(pn)
	}
}
