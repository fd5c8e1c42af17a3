package nodestore

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// NodeStore is the full operation surface of the store as an interface, so
// a consumer can depend on it instead of the concrete *Store.
type NodeStore interface {
	Clear()
	NewNode(class NodeClass) *Node
	DeleteNode(n *Node)
	Get(id NodeId) (*Node, bool)
	Release(n *Node)
	GetCopy(id NodeId) (*Node, error)
	Insert(n *Node) (NodeId, error)
	Replace(n *Node) error
	Remove(id NodeId) error
	Iterate(visitor func(n *Node) bool)
}

var _ NodeStore = (*Store)(nil)

// Store is the slot-table-backed address-space map. The zero value is not
// usable; construct with NewStore. mu serializes writers: every mutating
// operation takes it, Get/Release/Iterate never do, so those stay safe to
// call from goroutines racing a writer.
type Store struct {
	_ noCopy

	//lint:ignore U1000 keeps mu/tbl off the cache line a concurrent Get spins on
	pad [(cacheLineSize - unsafe.Sizeof(struct {
		mu      sync.Mutex
		tbl     atomic.Pointer[table]
		count   int
		growths uint32
		shrinks uint32
	}{})%cacheLineSize) % cacheLineSize]byte

	mu  sync.Mutex
	tbl atomic.Pointer[table]

	count   int
	growths uint32
	shrinks uint32
}

// storeConfig collects NewStore's functional options.
type storeConfig struct {
	sizeHint int
}

// Option configures a new Store.
type Option func(*storeConfig)

// WithInitialCapacity presizes the table so it can hold at least n entries
// before the first resize. If n is zero or negative it is ignored.
func WithInitialCapacity(n int) Option {
	return func(c *storeConfig) {
		c.sizeHint = n
	}
}

// NewStore constructs an empty Store. Capacity starts at the ladder's
// smallest prime >= 64 unless WithInitialCapacity asks for more headroom.
func NewStore(opts ...Option) *Store {
	var cfg storeConfig
	for _, o := range opts {
		o(&cfg)
	}

	primeIdx := initialPrimeIndex
	if cfg.sizeHint > 0 {
		want := uint32(cfg.sizeHint) * 4 / 3 // keep the hinted size under the 0.75 load factor
		if want < minCapacity {
			want = minCapacity
		}
		primeIdx = higherPrimeIndex(want)
	}

	s := &Store{}
	s.tbl.Store(newTable(primeIdx))
	return s
}

// Clear reclaims every entry and resets the table to the default initial
// capacity (the ladder's smallest prime >= 64); a WithInitialCapacity hint
// given to NewStore is not reapplied.
// Panics if any entry still has outstanding borrowers.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tbl.Load()
	for i := uint32(0); i < t.capacity(); i++ {
		p := t.loadSlot(i)
		if p == nil || p == tombstoneSlot {
			continue
		}
		if (*entry)(p).refcount.Load() != 0 {
			panic("nodestore: clear called with outstanding node references")
		}
	}

	s.tbl.Store(newTable(initialPrimeIndex))
	s.count = 0
}

// NewNode allocates an unpublished Node of the given class. The caller must
// eventually pass it to Insert, Replace, or DeleteNode.
func (s *Store) NewNode(class NodeClass) *Node {
	return &newEntry(class).node
}

// DeleteNode discards an unpublished Node. In Go there is no manual entry
// allocation to free (the garbage collector reclaims the entry once the
// last reference to it, including this one, is dropped); DeleteNode exists
// for parity with the ten-operation interface. Insert and Replace do not
// call it on failure; they simply drop their reference to the Node. It must
// not be called on a Node obtained from Get, GetCopy, or
// Iterate, nor on one already published by Insert/Replace.
func (s *Store) DeleteNode(n *Node) {
	_ = n
}

// Get returns a borrowed, read-only Node for id. The caller must eventually
// call Release. Safe to call concurrently with a single writer goroutine
// performing Insert/Replace/Remove/Clear.
func (s *Store) Get(id NodeId) (*Node, bool) {
	t := s.tbl.Load()
	_, e, ok := findOccupied(t, id.Hash(), id)
	if !ok {
		return nil, false
	}
	return e.pin(), true
}

// Release returns a borrowed Node obtained from Get or Iterate's visitor.
// Panics on a double release.
func (s *Store) Release(n *Node) {
	entryFromNode(n).release()
}

// GetCopy produces a mutable deep copy of the Node stored under id, linked
// back to the entry it was copied from so a later Replace can detect
// whether the table changed in between. The caller owns the result and must
// eventually pass it to Replace or DeleteNode.
func (s *Store) GetCopy(id NodeId) (*Node, error) {
	t := s.tbl.Load()
	_, e, ok := findOccupied(t, id.Hash(), id)
	if !ok {
		return nil, ErrNodeIdUnknown
	}
	ne := newEntry(e.node.Class)
	ne.node = e.node.clone()
	ne.orig = e
	return &ne.node, nil
}

// Insert publishes a Node produced by NewNode, assigning it a fresh numeric
// NodeId first if the supplied one is the zero-value numeric sentinel. On
// success it returns the NodeId actually stored (a copy, so the caller may
// mutate it freely). Insert always consumes n, on both success and failure.
func (s *Store) Insert(n *Node) (NodeId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tbl.Load()
	if t.capacity()*3 <= uint32(s.count)*4 {
		if err := s.expand(); err != nil {
			return NodeId{}, ErrInternal
		}
		t = s.tbl.Load()
	}

	var idx uint32
	if n.NodeId.IsZeroNumeric() {
		var ok bool
		idx, ok = s.assignNumericId(t, n)
		if !ok {
			return NodeId{}, ErrNodeIdExists
		}
	} else {
		i, outcome := findFreeForInsert(t, n.NodeId.Hash(), n.NodeId)
		if outcome != probeFoundFree {
			return NodeId{}, ErrNodeIdExists
		}
		idx = i
	}

	e := entryFromNode(n)
	e.hash = n.NodeId.Hash()

	old := t.loadSlot(idx)
	if !t.casSlot(idx, old, unsafe.Pointer(e)) {
		return NodeId{}, ErrInternal
	}
	s.count++
	return n.NodeId.copy(), nil
}

// assignNumericId picks a fresh numeric identifier for a zero-valued one:
// start at 50_000+size+1, step by 1+((count+1) mod (size-2)) wrapping mod
// size (not 2^32, so the candidate set is one residue class covering every
// slot), trying each candidate until a free slot is found or every residue
// has been tried.
func (s *Store) assignNumericId(t *table, n *Node) (uint32, bool) {
	size := t.capacity()
	identifier := uint32(50_000) + size + 1
	increase := 1 + (uint32(s.count+1) % (size - 2))

	// The walk descends from the 50_000+ start by size-increase per step
	// until it enters [0, size), then cycles through every residue mod size
	// (increase is coprime to the prime size). increase is at most size-2,
	// so the descent drops at least two per step; the bound exceeds the
	// longest possible descent plus one full cycle, and past it no untried
	// identifier remains.
	for tries := uint32(0); tries < 50_000+2*size+2; tries++ {
		n.NodeId.Numeric = identifier
		idx, outcome := findFreeForInsert(t, n.NodeId.Hash(), n.NodeId)
		if outcome == probeFoundFree {
			return idx, true
		}
		identifier += increase
		if identifier >= size {
			identifier -= size
		}
	}
	return 0, false
}

// Replace publishes a Node produced by GetCopy, superseding the entry it
// was copied from. Fails ErrNodeIdUnknown if the key is gone, or
// ErrInternal if the slot's occupant has changed since the copy was taken:
// the caller must re-read via GetCopy and retry.
func (s *Store) Replace(n *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entryFromNode(n)
	if e.orig == nil {
		panic("nodestore: replace called with a node not produced by GetCopy")
	}

	t := s.tbl.Load()
	idx, occupant, ok := findOccupied(t, n.NodeId.Hash(), n.NodeId)
	if !ok {
		return ErrNodeIdUnknown
	}
	if occupant != e.orig {
		return ErrInternal
	}

	orig := e.orig
	e.hash = orig.hash
	if !t.casSlot(idx, unsafe.Pointer(orig), unsafe.Pointer(e)) {
		return ErrInternal
	}
	// Drop the back-pointer once the publish is final, or every superseded
	// entry would stay reachable through its successor forever.
	e.orig = nil
	orig.markDeleted()
	return nil
}

// Remove tombstones the slot holding id. Existing borrowers obtained before
// the call keep a valid Node until they Release; reclamation happens on the
// last release.
func (s *Store) Remove(id NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tbl.Load()
	idx, e, ok := findOccupied(t, id.Hash(), id)
	if !ok {
		return ErrNodeIdUnknown
	}
	if !t.casSlot(idx, unsafe.Pointer(e), tombstoneSlot) {
		return ErrInternal
	}
	e.markDeleted()
	s.count--

	// Downsize if the table got very empty. The attempt is best-effort and
	// a failure would be non-fatal; expand cannot actually fail here.
	if uint32(s.count)*8 < t.capacity() && t.capacity() > 32 {
		_ = s.expand()
	}
	return nil
}

// Iterate visits every occupied slot, pinning each entry for the duration
// of the visitor call. No ordering guarantee; concurrent mutation may admit
// entries inserted after the scan started or skip ones removed during it,
// but each visited Node is internally consistent. The visitor returns false
// to stop early.
func (s *Store) Iterate(visitor func(n *Node) bool) {
	t := s.tbl.Load()
	for i := uint32(0); i < t.capacity(); i++ {
		p := t.loadSlot(i)
		if p == nil || p == tombstoneSlot {
			continue
		}
		e := (*entry)(p)
		e.refcount.Add(1)
		cont := visitor(&e.node)
		e.refcount.Add(-1)
		e.cleanup()
		if !cont {
			return
		}
	}
}
