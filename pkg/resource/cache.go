package resource

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// Common errors for cache operations.
var (
	// ErrNoFactory is returned by New when no factory is configured.
	ErrNoFactory = errors.New("resource factory is required")

	// ErrReleased is returned to waiters whose key was released while
	// the resource was still being constructed. The constructing caller
	// keeps the instance exclusively; waiters must acquire again.
	ErrReleased = errors.New("resource released during construction")
)

// Resource is an expensive-to-construct, explicitly disposable runtime
// object. The cache owns a resource exclusively once stored and invokes
// Close exactly once when the resource is released.
type Resource interface {
	Close() error
}

// Factory constructs a resource from caller-supplied parameters.
// Construction errors are propagated unchanged to the Acquire caller
// and are never retried by the cache.
type Factory func(cfg any) (Resource, error)

// Probe is an inexpensive, side-effect-free trial that reports whether
// the environment would allow resource construction right now. A probe
// returning false sends the caller to the readiness gate instead.
type Probe func() bool

// Options configures a Cache.
type Options struct {
	// Factory constructs resources. Required.
	Factory Factory

	// Probe is the fast-path readiness check. Optional; when nil, every
	// first acquisition waits on the readiness gate unless it has
	// already fired.
	Probe Probe

	// Ready lists external event sources that fire the readiness gate.
	// The first source to deliver wins; the rest are ignored.
	Ready []<-chan struct{}
}

// entry tracks one keyed resource, including the in-flight window
// between the first Acquire for a key and the factory returning.
type entry struct {
	res  Resource
	err  error
	done chan struct{}
}

// Cache provides at-most-one live resource per key. First acquisition
// for a key is gated on environment readiness; repeat acquisitions
// return the stored instance without probing or waiting.
type Cache struct {
	factory Factory
	probe   Probe
	latch   *Latch

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a cache from the given options.
func New(opts Options) (*Cache, error) {
	if opts.Factory == nil {
		return nil, ErrNoFactory
	}

	c := &Cache{
		factory: opts.Factory,
		probe:   opts.Probe,
		latch:   &Latch{},
		entries: make(map[string]*entry),
	}
	c.latch.Arm(opts.Ready...)

	return c, nil
}

// SignalReady fires the readiness gate directly, releasing any callers
// suspended in Acquire. Useful when readiness is decided by the caller
// rather than an external event source.
func (c *Cache) SignalReady() {
	c.latch.Fire()
}

// Ready reports whether the readiness gate has fired.
func (c *Cache) Ready() bool {
	return c.latch.Fired()
}

// Acquire returns the resource stored under key, constructing it on
// first use. An empty key always constructs a fresh, uncached resource.
//
// On a cache miss the environment is checked with the fast-path probe;
// if the probe fails, Acquire suspends until the readiness gate fires
// or ctx is canceled. Once the gate has fired once, all future
// acquisitions skip both the probe and the wait.
//
// Concurrent acquisitions of the same new key are serialized: exactly
// one caller runs the factory and every other caller receives the same
// instance (or the same construction error). If the key is released
// while construction is in flight, the constructing caller receives
// the resource uncached and owns it exclusively; concurrent waiters
// receive ErrReleased.
func (c *Cache) Acquire(ctx context.Context, key string, cfg any) (Resource, error) {
	if key == "" {
		if err := c.awaitReady(ctx); err != nil {
			return nil, err
		}
		return c.factory(cfg)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return c.await(ctx, e)
	}
	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	if err := c.awaitReady(ctx); err != nil {
		c.abandon(key, e, err)
		return nil, err
	}

	res, err := c.factory(cfg)

	c.mu.Lock()
	if err != nil {
		// Construction failed: drop the in-flight marker so a later
		// Acquire can try again.
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		e.err = err
	} else if c.entries[key] != e {
		// Released while constructing. The resource was never stored,
		// so this caller takes sole ownership, matching unkeyed
		// semantics. Anyone already waiting on the entry must not share
		// the instance; they get ErrReleased and can acquire again.
		log.Debug("Key released during construction, returning uncached resource", "key", key)
		e.err = ErrReleased
	} else {
		e.res = res
	}
	close(e.done)
	c.mu.Unlock()

	return res, err
}

// awaitReady runs the fast-path probe and, if it fails, suspends on the
// readiness gate.
func (c *Cache) awaitReady(ctx context.Context) error {
	if c.latch.Fired() {
		return nil
	}
	if c.probe != nil && c.probe() {
		return nil
	}
	log.Debug("Environment not ready, waiting on readiness gate")
	return c.latch.Wait(ctx)
}

// await blocks until an in-flight entry settles, then returns its
// outcome. Completed entries return immediately.
func (c *Cache) await(ctx context.Context, e *entry) (Resource, error) {
	select {
	case <-e.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return e.res, e.err
}

// abandon removes an in-flight marker after a failed wait so the key
// can be acquired again later.
func (c *Cache) abandon(key string, e *entry, err error) {
	c.mu.Lock()
	if c.entries[key] == e {
		delete(c.entries, key)
	}
	e.err = err
	close(e.done)
	c.mu.Unlock()
}

// Release disposes the resource stored under key and removes the
// entry. Disposal errors are logged and swallowed; the entry is removed
// regardless so the cache never holds a resource it cannot reuse.
// Releasing an absent key is a no-op.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	select {
	case <-e.done:
		if e.res != nil {
			closeQuietly(key, e.res)
		}
	default:
		// Still constructing. The map entry is gone, so the
		// constructing goroutine hands ownership to its caller.
	}
}

// ReleaseAll disposes every stored resource and clears the cache.
func (c *Cache) ReleaseAll() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*entry)
	c.mu.Unlock()

	for key, e := range entries {
		select {
		case <-e.done:
			if e.res != nil {
				closeQuietly(key, e.res)
			}
		default:
		}
	}
}

// Len returns the number of stored or in-flight entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the keys of all stored or in-flight entries.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

func closeQuietly(key string, res Resource) {
	if err := res.Close(); err != nil {
		log.Warn("Resource disposal failed", "key", key, "error", err)
	}
}
