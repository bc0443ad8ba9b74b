package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrDead is returned by the Ping of a killed FakeConn.
var ErrDead = errors.New("fake connection is dead")

// FakeConn is an in-memory connpool.Conn.
type FakeConn struct {
	// Seq is the creation order of the connection within its factory.
	Seq int

	dead   atomic.Bool
	hang   atomic.Bool
	closed atomic.Bool
	pings  atomic.Int64
}

func (c *FakeConn) Ping(ctx context.Context) error {
	c.pings.Add(1)
	if c.hang.Load() {
		<-ctx.Done()
		return ctx.Err()
	}
	if c.dead.Load() || c.closed.Load() {
		return ErrDead
	}
	return nil
}

func (c *FakeConn) Close(ctx context.Context) error {
	c.closed.Store(true)
	return nil
}

// Kill makes every later Ping fail.
func (c *FakeConn) Kill() { c.dead.Store(true) }

// Hang makes every later Ping block until its context is done.
func (c *FakeConn) Hang() { c.hang.Store(true) }

// Pings returns the number of Ping calls so far, including ones still
// blocked.
func (c *FakeConn) Pings() int64 { return c.pings.Load() }

// Closed reports whether Close has been called.
func (c *FakeConn) Closed() bool { return c.closed.Load() }

// FakeFactory opens FakeConns and remembers every one of them.
type FakeFactory struct {
	mu       sync.Mutex
	attempts int
	conns    []*FakeConn
	fail     func(attempt int) bool
}

func NewFakeFactory() *FakeFactory {
	return &FakeFactory{}
}

// FailWhen makes Connect fail for every attempt (counted from 0) for which
// fn returns true.
func (f *FakeFactory) FailWhen(fn func(attempt int) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fn
}

func (f *FakeFactory) Connect(ctx context.Context) (*FakeConn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	attempt := f.attempts
	f.attempts++

	if f.fail != nil && f.fail(attempt) {
		return nil, fmt.Errorf("fake connect attempt %d refused", attempt)
	}

	c := &FakeConn{Seq: len(f.conns)}
	f.conns = append(f.conns, c)
	return c, nil
}

// Conns returns every connection opened so far, in creation order.
func (f *FakeFactory) Conns() []*FakeConn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeConn(nil), f.conns...)
}

// Attempts returns the number of Connect calls so far.
func (f *FakeFactory) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}
