package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeResource counts Close calls and can fail disposal.
type fakeResource struct {
	id       int
	closed   atomic.Int32
	closeErr error
}

func (f *fakeResource) Close() error {
	f.closed.Add(1)
	return f.closeErr
}

// fakeFactory builds fakeResources and counts invocations.
type fakeFactory struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (ff *fakeFactory) build(cfg any) (Resource, error) {
	n := ff.calls.Add(1)
	if ff.delay > 0 {
		time.Sleep(ff.delay)
	}
	if ff.err != nil {
		return nil, ff.err
	}
	return &fakeResource{id: int(n)}, nil
}

func newReadyCache(t *testing.T, ff *fakeFactory) *Cache {
	t.Helper()
	c, err := New(Options{Factory: ff.build})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.SignalReady()
	return c
}

func TestNew_RequiresFactory(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestCache_Memoization(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	first, err := c.Acquire(ctx, "mic", nil)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	second, err := c.Acquire(ctx, "mic", nil)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if first != second {
		t.Error("repeat Acquire returned a different instance")
	}
	if got := ff.calls.Load(); got != 1 {
		t.Errorf("factory called %d times, want 1", got)
	}
}

func TestCache_ConfigIgnoredOnHit(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	first, _ := c.Acquire(ctx, "mic", 16000)
	second, _ := c.Acquire(ctx, "mic", 44100)

	if first != second {
		t.Error("hit with different config returned a new instance")
	}
	if got := ff.calls.Load(); got != 1 {
		t.Errorf("factory called %d times, want 1", got)
	}
}

func TestCache_KeyIsolation(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	a, _ := c.Acquire(ctx, "a", nil)
	b, _ := c.Acquire(ctx, "b", nil)

	if a == b {
		t.Error("distinct keys returned the same instance")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCache_UnkeyedAlwaysFresh(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	a, err := c.Acquire(ctx, "", nil)
	if err != nil {
		t.Fatalf("unkeyed Acquire failed: %v", err)
	}
	b, err := c.Acquire(ctx, "", nil)
	if err != nil {
		t.Fatalf("unkeyed Acquire failed: %v", err)
	}

	if a == b {
		t.Error("unkeyed acquisitions returned the same instance")
	}
	if c.Len() != 0 {
		t.Errorf("unkeyed resources were stored, Len = %d", c.Len())
	}
}

func TestCache_ReleaseIdempotent(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	res, _ := c.Acquire(ctx, "mic", nil)

	c.Release("mic")
	c.Release("mic")      // second release of same key
	c.Release("missing")  // never-acquired key

	if got := res.(*fakeResource).closed.Load(); got != 1 {
		t.Errorf("Close called %d times, want 1", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after release, want 0", c.Len())
	}
}

func TestCache_ReleaseSwallowsDisposalError(t *testing.T) {
	boom := errors.New("device busy")
	c, err := New(Options{Factory: func(any) (Resource, error) {
		return &fakeResource{closeErr: boom}, nil
	}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.SignalReady()

	ctx := context.Background()
	if _, err := c.Acquire(ctx, "mic", nil); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	c.Release("mic") // must not panic or propagate
	if c.Len() != 0 {
		t.Error("entry survived a failed disposal")
	}
}

func TestCache_ReleaseAll(t *testing.T) {
	ff := &fakeFactory{}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	mic, _ := c.Acquire(ctx, "mic", nil)
	spk, _ := c.Acquire(ctx, "speaker", nil)

	c.ReleaseAll()

	if got := mic.(*fakeResource).closed.Load(); got != 1 {
		t.Errorf("mic closed %d times, want 1", got)
	}
	if got := spk.(*fakeResource).closed.Load(); got != 1 {
		t.Errorf("speaker closed %d times, want 1", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after ReleaseAll, want 0", c.Len())
	}

	// A former key constructs a new instance.
	again, err := c.Acquire(ctx, "mic", nil)
	if err != nil {
		t.Fatalf("Acquire after ReleaseAll failed: %v", err)
	}
	if again == mic {
		t.Error("Acquire after ReleaseAll returned the disposed instance")
	}
	if got := ff.calls.Load(); got != 3 {
		t.Errorf("factory called %d times, want 3", got)
	}
}

func TestCache_ConstructionErrorPropagates(t *testing.T) {
	boom := errors.New("no audio device")
	ff := &fakeFactory{err: boom}
	c := newReadyCache(t, ff)

	ctx := context.Background()
	if _, err := c.Acquire(ctx, "mic", nil); !errors.Is(err, boom) {
		t.Fatalf("expected construction error, got %v", err)
	}

	// The failed key is retryable.
	if c.Len() != 0 {
		t.Error("failed construction left an entry behind")
	}
	ff.err = nil
	if _, err := c.Acquire(ctx, "mic", nil); err != nil {
		t.Fatalf("retry after failure failed: %v", err)
	}
	if got := ff.calls.Load(); got != 2 {
		t.Errorf("factory called %d times, want 2", got)
	}
}

func TestCache_ConcurrentAcquireSameKey(t *testing.T) {
	ff := &fakeFactory{delay: 10 * time.Millisecond}
	c := newReadyCache(t, ff)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]Resource, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Acquire(context.Background(), "shared", nil)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d received a different instance", i)
		}
	}
	if got := ff.calls.Load(); got != 1 {
		t.Errorf("factory called %d times under contention, want 1", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_ReleaseDuringConstruction(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	unblock := make(chan struct{})
	c, err := New(Options{Factory: func(any) (Resource, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-unblock
		return &fakeResource{}, nil
	}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.SignalReady()

	type outcome struct {
		res Resource
		err error
	}

	winner := make(chan outcome, 1)
	go func() {
		res, err := c.Acquire(context.Background(), "mic", nil)
		winner <- outcome{res, err}
	}()
	<-started

	waiter := make(chan outcome, 1)
	go func() {
		res, err := c.Acquire(context.Background(), "mic", nil)
		waiter <- outcome{res, err}
	}()

	// Let the second caller park on the in-flight entry.
	time.Sleep(50 * time.Millisecond)

	c.Release("mic")
	close(unblock)

	w := <-winner
	if w.err != nil {
		t.Fatalf("constructing caller failed: %v", w.err)
	}
	if w.res == nil {
		t.Fatal("constructing caller received no resource")
	}

	wt := <-waiter
	if !errors.Is(wt.err, ErrReleased) {
		t.Fatalf("waiter error = %v, want ErrReleased", wt.err)
	}
	if wt.res != nil {
		t.Error("waiter shares the exclusively owned instance")
	}

	// The instance was never stored, so the cache never closes it and
	// the key is free again.
	if n := w.res.(*fakeResource).closed.Load(); n != 0 {
		t.Errorf("uncached resource closed %d times by the cache", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	if _, err := c.Acquire(context.Background(), "mic", nil); err != nil {
		t.Fatalf("re-acquire after release failed: %v", err)
	}
}

func TestCache_ProbeFastPath(t *testing.T) {
	ff := &fakeFactory{}
	c, err := New(Options{
		Factory: ff.build,
		Probe:   func() bool { return true },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// The gate never fired, but the probe lets the caller through.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Acquire(ctx, "mic", nil); err != nil {
		t.Fatalf("Acquire with passing probe failed: %v", err)
	}
	if c.Ready() {
		t.Error("probe success fired the readiness gate")
	}
}

func TestCache_WaitsForReadiness(t *testing.T) {
	ff := &fakeFactory{}
	ready := make(chan struct{})
	c, err := New(Options{
		Factory: ff.build,
		Probe:   func() bool { return false },
		Ready:   []<-chan struct{}{ready},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	acquired := make(chan Resource, 1)
	go func() {
		res, err := c.Acquire(context.Background(), "mic", nil)
		if err != nil {
			t.Errorf("gated Acquire failed: %v", err)
		}
		acquired <- res
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire completed before the readiness event")
	case <-time.After(30 * time.Millisecond):
	}

	close(ready)

	select {
	case res := <-acquired:
		if res == nil {
			t.Fatal("Acquire returned nil resource")
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not resume after readiness event")
	}

	// After the gate fires the probe is skipped entirely: a failing
	// probe no longer blocks new keys.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Acquire(ctx, "speaker", nil); err != nil {
		t.Fatalf("post-gate Acquire failed: %v", err)
	}
}

func TestCache_AcquireCanceledWhileWaiting(t *testing.T) {
	ff := &fakeFactory{}
	c, err := New(Options{
		Factory: ff.build,
		Probe:   func() bool { return false },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := c.Acquire(ctx, "mic", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if got := ff.calls.Load(); got != 0 {
		t.Errorf("factory called %d times for a canceled wait, want 0", got)
	}

	// The abandoned key must be acquirable once the gate fires.
	c.SignalReady()
	if _, err := c.Acquire(context.Background(), "mic", nil); err != nil {
		t.Fatalf("Acquire after canceled wait failed: %v", err)
	}
}
