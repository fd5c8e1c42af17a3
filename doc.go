// Package nodestore implements an in-memory, concurrently-readable
// associative store mapping NodeId to Node, the authoritative address-space
// table behind an OPC UA-style information-model server.
//
// The table is a single open-addressed array sized from a fixed prime
// ladder (primes.go), probed with double hashing (slot.go). Entries
// (entry.go) are published into slots with an atomic compare-and-swap, so a
// single writer goroutine may Insert, Replace, Remove, or Clear while any
// number of other goroutines concurrently call Get, Release, or Iterate
// without additional coordination.
//
// A Node obtained from Get must eventually be passed to Release, and a
// GetCopy result to Replace or DeleteNode; Iterate pins and unpins each
// visited entry itself. The store defers reclamation of a removed or
// superseded entry until its last borrower releases it.
package nodestore
