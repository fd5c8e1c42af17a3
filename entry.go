package nodestore

import (
	"sync/atomic"
	"unsafe"
)

// entry is the heap-allocated wrapper around a Node that carries the map's
// own bookkeeping: a cached hash, a back-pointer to the entry a copy was
// cloned from, a reference count, and a deferred-delete flag.
type entry struct {
	hash     uint32
	orig     *entry // non-nil only for entries produced by GetCopy
	refcount atomic.Int32
	deleted  atomic.Bool
	node     Node
}

// newEntry allocates an unpublished entry for the given class. It is not
// reachable through any slot until Insert or Replace publishes it.
func newEntry(class NodeClass) *entry {
	e := &entry{}
	e.node.Class = class
	return e
}

// pin increments the refcount, producing a borrowed *Node the caller must
// eventually pass to Release.
func (e *entry) pin() *Node {
	e.refcount.Add(1)
	return &e.node
}

// release decrements the refcount and reclaims the entry if it has already
// been marked deleted and no other borrower remains. Panics if the refcount
// is not positive.
func (e *entry) release() {
	if e.refcount.Add(-1) < 0 {
		panic("nodestore: release of entry with zero refcount")
	}
	e.cleanup()
}

// cleanup is the idempotent reclamation check: an entry that is deleted
// with refcount zero simply becomes unreferenced, and the garbage collector
// reclaims it once the last pointer (the slot's, if any, and every
// borrower's) is gone. Kept as a named call site so entry.go stays the
// single place that decides when an entry is gone; it does nothing itself,
// since there is no manual free to perform.
func (e *entry) cleanup() {
	// Deliberately empty: see doc comment.
}

// markDeleted tombstones the entry itself (distinct from the slot
// tombstone) and runs cleanup immediately; if refcount > 0 at this point,
// reclamation is deferred to the last release.
func (e *entry) markDeleted() {
	e.deleted.Store(true)
	e.cleanup()
}

// nodeOffset is the byte offset of entry.node within entry, computed once
// at init.
var nodeOffset = unsafe.Offsetof(entry{}.node)

// entryFromNode recovers, container_of style, the entry that owns a *Node
// previously handed out by NewNode, Get, GetCopy or Iterate's visitor
// callback. It is undefined behavior to call it with a *Node not obtained
// from this package.
func entryFromNode(n *Node) *entry {
	return (*entry)(unsafe.Pointer(uintptr(unsafe.Pointer(n)) - nodeOffset))
}
