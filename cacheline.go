package nodestore

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is used to pad structures so the writer's mutation path and
// a concurrent reader's slot scan don't false-share a cache line.
const cacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
