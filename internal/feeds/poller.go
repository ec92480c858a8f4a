// Package feeds keeps per-screen widget data fresh. Each screen owns a set of
// pollers and timers that live exactly as long as the screen is mounted.
package feeds

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/scheduler"
	"go.uber.org/zap"
)

// PollerConfig describes one remote collection.
type PollerConfig[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)

	// Interval between refetches. Zero fetches once per mount.
	Interval time.Duration

	// Shape post-processes a successful result, e.g. to keep a prefix.
	Shape func(T) T

	// OnValue runs after a result is applied.
	OnValue func(T)
}

// Poller holds the latest applied result of a fetch. Failed fetches are
// logged and leave the previous result in place. A response is applied only
// if no later-issued request has already been applied, so a slow response
// can't overwrite a newer one.
type Poller[T any] struct {
	cfg    PollerConfig[T]
	logger *zap.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	sched    *scheduler.Scheduler
	onChange func(name string)
	value    T
	has      bool
	issued   uint64
	applied  uint64
}

func NewPoller[T any](cfg PollerConfig[T], logger *zap.Logger) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller[T]{cfg: cfg, logger: logger}
}

// Name returns the feed name.
func (p *Poller[T]) Name() string { return p.cfg.Name }

// Start binds the poller to a mount. It does not fetch; call Refresh for the
// initial load. Interval refetches run on sched.
func (p *Poller[T]) Start(ctx context.Context, sched *scheduler.Scheduler, onChange func(name string)) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.sched = sched
	p.onChange = onChange
	p.mu.Unlock()

	if p.cfg.Interval > 0 && sched != nil {
		sched.Every(p.cfg.Name, p.cfg.Interval, func() { p.Refresh() })
	}
}

// Stop aborts any in-flight fetch, cancels the refetch timer and forgets the
// last result.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	if p.sched != nil {
		p.sched.Cancel(p.cfg.Name)
	}
	var zero T
	p.ctx, p.cancel, p.sched, p.onChange = nil, nil, nil, nil
	p.value, p.has = zero, false
}

// Refresh fetches once and reports whether the result was applied.
func (p *Poller[T]) Refresh() bool {
	p.mu.Lock()
	ctx := p.ctx
	if ctx == nil || ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	v, err := p.cfg.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("feed fetch failed", zap.String("feed", p.cfg.Name), zap.Error(err))
		}
		return false
	}
	if p.cfg.Shape != nil {
		v = p.cfg.Shape(v)
	}

	p.mu.Lock()
	if ctx.Err() != nil || ctx != p.ctx || seq <= p.applied {
		p.mu.Unlock()
		return false
	}
	p.applied = seq
	p.value, p.has = v, true
	onChange := p.onChange
	p.mu.Unlock()

	if p.cfg.OnValue != nil {
		p.cfg.OnValue(v)
	}
	if onChange != nil {
		onChange(p.cfg.Name)
	}
	return true
}

// Value returns the last applied result.
func (p *Poller[T]) Value() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.has
}

// Limit returns a Shape keeping at most n leading elements.
func Limit[E any](n int) func([]E) []E {
	return func(s []E) []E {
		if len(s) > n {
			s = s[:n]
		}
		return append([]E(nil), s...)
	}
}

// feed is the type-erased view of a Poller that screens drive.
type feed interface {
	Start(ctx context.Context, sched *scheduler.Scheduler, onChange func(name string))
	Stop()
	Refresh() bool
}

// startAll binds every feed to the mount, runs the initial loads
// concurrently and waits for them.
func startAll(ctx context.Context, sched *scheduler.Scheduler, onChange func(name string), fs ...feed) {
	var wg sync.WaitGroup
	for _, f := range fs {
		f.Start(ctx, sched, onChange)
		wg.Add(1)
		go func(f feed) {
			defer wg.Done()
			f.Refresh()
		}(f)
	}
	wg.Wait()
}

// chained loads then after first, for feeds whose request depends on
// another feed's result.
type chained struct {
	first, then feed
}

func (c chained) Start(ctx context.Context, sched *scheduler.Scheduler, onChange func(name string)) {
	c.first.Start(ctx, sched, onChange)
	c.then.Start(ctx, sched, onChange)
}

func (c chained) Stop() {
	c.first.Stop()
	c.then.Stop()
}

func (c chained) Refresh() bool {
	ok := c.first.Refresh()
	return c.then.Refresh() || ok
}

func stopAll(fs ...feed) {
	for _, f := range fs {
		f.Stop()
	}
}
