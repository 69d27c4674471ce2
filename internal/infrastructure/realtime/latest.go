package realtime

import (
	"context"
	"sync"
)

// Latest tracks the most recently issued request of a session. Starting a
// request cancels the one before it, and only the current request may
// deliver its result, so responses follow issue order rather than
// completion order.
type Latest struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// Begin supersedes any in-flight request and returns the context and
// generation for the new one
func (l *Latest) Begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	if l.closed {
		cancel()
	}
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

// Current reports whether gen is still the latest generation
func (l *Latest) Current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed && gen == l.gen
}

// Deliver runs fn if gen is still current and reports whether it ran.
// No Begin can interleave with fn.
func (l *Latest) Deliver(gen uint64, fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen {
		return false
	}
	fn()
	return true
}

// Stop cancels the in-flight request and rejects all later deliveries
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
