package body

import "sync"

// scratchPool is the process-wide pool of transfer scratch buffers.
// sync.Pool gives init-on-first-use for free; teardown is simply letting
// the process exit, since sync.Pool has no explicit Close. Per-decode
// allocation would be observably identical, just slower under load.
var scratchPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, defaultScratchSize)
		return &buf
	},
}

// getScratch returns a scratch buffer of at least size n, resizing an
// already-pooled slice in place when the caller asked for something larger
// than the pool default.
func getScratch(n int) *[]byte {
	p := scratchPool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
	} else {
		*p = (*p)[:n]
	}
	return p
}

func putScratch(p *[]byte) {
	scratchPool.Put(p)
}
