package internal

import (
	"context"
	"sync"
	"sync/atomic"
)

// ConnGate coordinates the connect/logout lifecycle of the Reddit client.
// Transitions serialize under a mutex so concurrent Connect calls coalesce
// into one token grant, while Connected stays cheap for the per-request
// readiness check. Unlike a sync.Once, the gate resets on Disconnect so a
// client can log out and connect again.
type ConnGate struct {
	mu        sync.Mutex
	connected atomic.Bool
}

// NewConnGate creates a gate in the unconnected state.
func NewConnGate() *ConnGate {
	return &ConnGate{}
}

// Connect runs fn unless the gate is already connected. Concurrent callers
// block until the first finishes; when it succeeds they return nil without
// running fn again. A failed fn leaves the gate unconnected, so a later
// Connect retries.
func (g *ConnGate) Connect(ctx context.Context, fn func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected.Load() {
		return nil
	}
	if fn != nil {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	g.connected.Store(true)
	return nil
}

// Disconnect runs fn when connected and returns the gate to the unconnected
// state on success. On an unconnected gate it is a no-op.
func (g *ConnGate) Disconnect(ctx context.Context, fn func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected.Load() {
		return nil
	}
	if fn != nil {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	g.connected.Store(false)
	return nil
}

// Connected reports whether the gate is in the connected state.
func (g *ConnGate) Connected() bool {
	return g.connected.Load()
}
