package nodestore

import "sort"

// primes is the ascending capacity ladder the slot table is always sized
// from. Each entry is the largest prime below the corresponding power of
// two, up to the 32-bit range.
var primes = [...]uint32{
	7, 13, 31, 61, 127, 251,
	509, 1021, 2039, 4093, 8191, 16381,
	32749, 65521, 131071, 262139, 524287, 1048573,
	2097143, 4194301, 8388593, 16777213, 33554393, 67108859,
	134217689, 268435399, 536870909, 1073741789, 2147483647, 4294967291,
}

// minCapacity is the lower bound for a new store's table size. expand does
// not shrink a table whose size is already at or below it, but a shrink of a
// larger table can pick a smaller prime from the ladder.
const minCapacity = 64

// higherPrimeIndex returns the index into primes of the smallest prime >= n.
func higherPrimeIndex(n uint32) int {
	return sort.Search(len(primes), func(i int) bool {
		return primes[i] >= n
	})
}

// initialPrimeIndex is the ladder index used for a freshly created store:
// the smallest prime at or above minCapacity.
var initialPrimeIndex = higherPrimeIndex(minCapacity)
