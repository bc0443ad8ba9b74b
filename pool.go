package connpool

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Pool manages a bounded, lazily grown collection of idle physical
// connections.
//
// A Pool starts with one batch of Config.InitialSize connections. When Borrow
// finds no idle connection it opens another batch, up to Config.MaxGrowths
// batches in total; past that point Borrow returns ErrPoolExhausted instead of
// waiting. Borrowed connections come back to the tail of the idle queue when
// their Handle is released.
type Pool[C Conn] struct {
	cfg     Config
	factory Factory[C]
	logger  *slog.Logger

	mu          sync.Mutex // protects the fields below
	idle        []*entry[C]
	growthCount int
	generation  uint64 // bumped on every liveness reset
	closed      bool
	stats       counters
}

// New creates a pool and opens its first batch of connections.
//
// Connections that fail to open are logged and skipped; New only fails when
// the configuration is invalid.
func New[C Conn](ctx context.Context, config *Config, factory Factory[C]) (*Pool[C], error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("factory is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := config.withDefaults()
	p := &Pool[C]{
		cfg:     cfg,
		factory: factory,
		logger:  cfg.Logger,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.createBatch(ctx, cfg.InitialSize)
	if err != nil {
		p.logger.Warn("initial batch incomplete",
			"requested", cfg.InitialSize, "created", len(entries), "error", err)
	}
	p.pushIdle(entries...)
	p.growthCount = 1

	p.logger.Info("connection pool created",
		"idle", len(p.idle), "batch_size", cfg.InitialSize, "max_growths", cfg.MaxGrowths)
	return p, nil
}

// Borrow takes the oldest idle connection out of the pool.
//
// If the pool is empty and may still grow, a new batch is opened first.
// Borrow never waits for another caller to release a connection: when nothing
// is idle and the pool cannot grow it returns ErrPoolExhausted, leaving the
// pool untouched. An idle connection that CheckLiveness is pinging at that
// moment is not handed out.
//
// The returned Handle must be released exactly once.
func (p *Pool[C]) Borrow(ctx context.Context) (*Handle[C], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if p.available() == 0 && p.growthCount < p.cfg.MaxGrowths {
		entries, err := p.createBatch(ctx, p.cfg.InitialSize)
		if len(entries) == 0 && ctx.Err() != nil {
			// Nothing was opened because the caller gave up, so the batch
			// does not count against the ceiling.
			return nil, ctx.Err()
		}
		if err != nil {
			p.logger.Warn("growth batch incomplete",
				"requested", p.cfg.InitialSize, "created", len(entries), "error", err)
		}
		p.pushIdle(entries...)
		p.growthCount++
		p.logger.Info("connection pool grown", "growth_count", p.growthCount, "idle", len(p.idle))
	}

	e := p.takeIdle()
	if e == nil {
		p.stats.exhausted++
		p.logger.Warn("connection pool exhausted", "growth_count", p.growthCount)
		return nil, ErrPoolExhausted
	}
	p.stats.borrowed++

	p.logger.Debug("borrowed connection", "conn", e.id)
	return &Handle[C]{pool: p, entry: e}, nil
}

// recycle appends e to the tail of the idle queue. After Close, the
// connection is destroyed instead.
func (p *Pool[C]) recycle(e *entry[C]) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.destroy(context.Background(), []*entry[C]{e})
	}
	p.pushIdle(e)
	p.stats.recycled++
	p.mu.Unlock()

	p.logger.Debug("recycled connection", "conn", e.id)
	return nil
}

// CheckLiveness probes every idle connection, each probe bounded by
// Config.ProbeTimeout.
//
// On the first probe that fails or times out, the whole idle queue is
// discarded, the growth count goes back to 1 and a fresh batch of
// Config.InitialSize connections replaces it. Staleness is assumed to be
// shared by all connections, so the remaining ones are not probed.
// CheckLiveness reports whether such a reset happened.
//
// Probes run without holding the pool lock, so Borrow and Release proceed
// while a slow probe is in flight.
func (p *Pool[C]) CheckLiveness(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false, ErrPoolClosed
	}
	gen := p.generation
	snapshot := slices.Clone(p.idle)
	p.mu.Unlock()

	for _, e := range snapshot {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return false, ErrPoolClosed
		}
		if p.generation != gen {
			// Another check already replaced this snapshot.
			p.mu.Unlock()
			return false, nil
		}
		if !e.idle || e.probing {
			p.mu.Unlock()
			continue
		}
		e.probing = true
		p.mu.Unlock()

		err := p.probe(ctx, e)

		p.mu.Lock()
		e.probing = false
		if !e.idle {
			// Close or a concurrent reset dropped e while it was being
			// probed and left its teardown to us.
			closed := p.closed
			p.mu.Unlock()
			_ = p.destroy(context.WithoutCancel(ctx), []*entry[C]{e})
			if closed {
				return false, ErrPoolClosed
			}
			return false, nil
		}
		if err == nil {
			p.mu.Unlock()
			continue
		}
		if ctx.Err() != nil {
			// The caller gave up; this says nothing about the connection.
			p.mu.Unlock()
			return false, ctx.Err()
		}

		p.logger.Warn("liveness probe failed, resetting pool", "conn", e.id, "error", err)
		stale := p.detachIdle()
		fresh, err := p.createBatch(ctx, p.cfg.InitialSize)
		if err != nil {
			p.logger.Warn("reset batch incomplete",
				"requested", p.cfg.InitialSize, "created", len(fresh), "error", err)
		}
		p.pushIdle(fresh...)
		p.growthCount = 1
		p.generation++
		p.stats.resets++
		p.mu.Unlock()

		// Closing dead connections is expected to fail; destroy logs it.
		_ = p.destroy(context.WithoutCancel(ctx), stale)
		return true, nil
	}
	return false, nil
}

func (p *Pool[C]) probe(ctx context.Context, e *entry[C]) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()
	return e.conn.Ping(ctx)
}

// available counts idle entries Borrow may hand out. p.mu must be held.
func (p *Pool[C]) available() int {
	n := 0
	for _, e := range p.idle {
		if !e.probing {
			n++
		}
	}
	return n
}

// pushIdle appends entries to the tail of the idle queue. p.mu must be held.
func (p *Pool[C]) pushIdle(entries ...*entry[C]) {
	for _, e := range entries {
		e.idle = true
	}
	p.idle = append(p.idle, entries...)
}

// takeIdle removes the oldest entry not under probe, or returns nil.
// p.mu must be held.
func (p *Pool[C]) takeIdle() *entry[C] {
	for i, e := range p.idle {
		if e.probing {
			continue
		}
		p.idle = slices.Delete(p.idle, i, i+1)
		e.idle = false
		return e
	}
	return nil
}

// detachIdle empties the idle queue and returns the entries the caller must
// destroy. An entry under probe is destroyed by its prober instead.
// p.mu must be held.
func (p *Pool[C]) detachIdle() []*entry[C] {
	out := make([]*entry[C], 0, len(p.idle))
	for _, e := range p.idle {
		e.idle = false
		if !e.probing {
			out = append(out, e)
		}
	}
	p.idle = nil
	return out
}

// Close destroys every idle connection and makes further Borrow calls fail
// with ErrPoolClosed. Connections still borrowed are destroyed when their
// handles are released.
func (p *Pool[C]) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.detachIdle()
	p.mu.Unlock()

	p.logger.Info("connection pool closed", "destroyed", len(idle))
	return p.destroy(ctx, idle)
}

// Config returns the configuration the pool runs with, defaults applied.
func (p *Pool[C]) Config() Config {
	return p.cfg
}
