package connpool

// IdleConns returns the idle physical connections, oldest first.
func (p *Pool[C]) IdleConns() []C {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns := make([]C, 0, len(p.idle))
	for _, e := range p.idle {
		conns = append(conns, e.conn)
	}
	return conns
}

func (p *Pool[C]) GrowthCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.growthCount
}
