package resource

import (
	"context"
	"sync"
)

// Latch is a one-shot readiness gate. It starts unfired, fires exactly
// once, and stays fired for the remainder of the process. Waiters block
// until the first Fire; all later waits return immediately.
//
// The zero value is ready to use.
type Latch struct {
	mu    sync.Mutex
	ch    chan struct{}
	fired bool
}

// channel lazily creates the underlying signal channel.
func (l *Latch) channel() chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ch == nil {
		l.ch = make(chan struct{})
		if l.fired {
			close(l.ch)
		}
	}
	return l.ch
}

// Fire marks the latch as fired. Subsequent calls are no-ops.
func (l *Latch) Fire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fired {
		return
	}
	l.fired = true
	if l.ch != nil {
		close(l.ch)
	}
}

// Fired reports whether the latch has fired.
func (l *Latch) Fired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired
}

// Wait blocks until the latch fires or ctx is canceled. Cancellation
// aborts only this caller's wait; the latch itself is unaffected.
func (l *Latch) Wait(ctx context.Context) error {
	ch := l.channel()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Arm fires the latch as soon as any of the given event sources
// delivers a value or is closed. Sources that fire after the first one
// are ignored. Arm may be called multiple times with different sources.
func (l *Latch) Arm(sources ...<-chan struct{}) {
	done := l.channel()
	for _, src := range sources {
		if src == nil {
			continue
		}
		go func(src <-chan struct{}) {
			select {
			case <-src:
				l.Fire()
			case <-done:
			}
		}(src)
	}
}
