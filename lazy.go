package connpool

import "sync"

// Lazy builds a pool on first use and hands the same pool to every caller
// afterwards. Concurrent first calls build it exactly once.
//
// A failed build is not retried: every caller receives the same error.
type Lazy[C Conn] struct {
	get func() (*Pool[C], error)
}

// NewLazy returns a Lazy that calls build on the first Get.
func NewLazy[C Conn](build func() (*Pool[C], error)) *Lazy[C] {
	return &Lazy[C]{get: sync.OnceValues(build)}
}

// Get returns the pool, building it if this is the first call.
func (l *Lazy[C]) Get() (*Pool[C], error) {
	return l.get()
}
