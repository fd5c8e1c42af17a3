package nodestore

import "errors"

// Sentinel errors for every failure the store surfaces. Checkable with
// errors.Is; the store never wraps these further, so a direct equality
// check also works, but errors.Is is the idiomatic call site.
var (
	// ErrOutOfMemory is the status code for allocation failures. No
	// operation of this package returns it: Insert reports a failed
	// pre-insert resize as ErrInternal, and Remove ignores a failed shrink.
	ErrOutOfMemory = errors.New("nodestore: out of memory")

	// ErrNodeIdUnknown is returned by GetCopy, Replace and Remove when the
	// requested NodeId has no occupied slot.
	ErrNodeIdUnknown = errors.New("nodestore: node id unknown")

	// ErrNodeIdExists is returned by Insert when the NodeId (supplied or
	// assigned) collides with an existing entry, or the slot table has no
	// free slot for it.
	ErrNodeIdExists = errors.New("nodestore: node id exists")

	// ErrInternal is returned when an optimistic CAS loses to a concurrent
	// mutation it did not expect: on Replace this means the copy is stale
	// and the caller must re-read with GetCopy and retry.
	ErrInternal = errors.New("nodestore: internal concurrency conflict")

	// ErrBadEncoding is passed through from collaborators; it is never
	// generated by this package's own Node type, whose clone is a pure
	// in-memory copy.
	ErrBadEncoding = errors.New("nodestore: bad encoding")
)
