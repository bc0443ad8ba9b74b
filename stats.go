package connpool

// Stats is a point-in-time snapshot of a pool.
type Stats struct {
	Idle        int `json:"idle"`
	GrowthCount int `json:"growth_count"`
	MaxGrowths  int `json:"max_growths"`
	BatchSize   int `json:"batch_size"`

	Created        uint64 `json:"created"`
	CreateFailures uint64 `json:"create_failures"`
	Borrowed       uint64 `json:"borrowed"`
	Recycled       uint64 `json:"recycled"`
	Destroyed      uint64 `json:"destroyed"`
	Exhausted      uint64 `json:"exhausted"`
	Resets         uint64 `json:"resets"`
}

type counters struct {
	created        uint64
	createFailures uint64
	borrowed       uint64
	recycled       uint64
	destroyed      uint64
	exhausted      uint64
	resets         uint64
}

// Stats returns a snapshot of the pool's state and counters.
func (p *Pool[C]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Idle:           len(p.idle),
		GrowthCount:    p.growthCount,
		MaxGrowths:     p.cfg.MaxGrowths,
		BatchSize:      p.cfg.InitialSize,
		Created:        p.stats.created,
		CreateFailures: p.stats.createFailures,
		Borrowed:       p.stats.borrowed,
		Recycled:       p.stats.recycled,
		Destroyed:      p.stats.destroyed,
		Exhausted:      p.stats.exhausted,
		Resets:         p.stats.resets,
	}
}
