package feeds

import (
	"context"
	"sort"
	"sync"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/scheduler"
	"go.uber.org/zap"
)

// Screen names
const (
	ScreenSocialProof = "social-proof"
	ScreenRewards     = "rewards"
	ScreenProfile     = "profile"
)

// Notify is called with the screen and feed name whenever a feed changes.
type Notify func(screen, feed string)

// Screen is a set of feeds tied to a mounted view.
type Screen interface {
	Name() string
	// Mount loads every feed and starts the screen's timers. Mounting an
	// already mounted screen starts over.
	Mount(ctx context.Context)
	// Unmount cancels timers and in-flight fetches.
	Unmount()
	Mounted() bool
	Snapshot() any
}

// Options are shared by every screen.
type Options struct {
	Clock  clock.Clock
	Logger *zap.Logger
	Notify Notify
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// lifecycle tracks one mount: its context and the scheduler that owns its
// timers.
type lifecycle struct {
	name string
	opts Options

	mu      sync.Mutex
	sched   *scheduler.Scheduler
	cancel  context.CancelFunc
	mounted bool
}

func (l *lifecycle) Name() string { return l.name }

func (l *lifecycle) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

func (l *lifecycle) begin(ctx context.Context) (context.Context, *scheduler.Scheduler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endLocked()
	ctx, l.cancel = context.WithCancel(ctx)
	l.sched = scheduler.New(l.opts.Clock)
	l.mounted = true
	l.opts.Logger.Debug("screen mounted", zap.String("screen", l.name))
	return ctx, l.sched
}

func (l *lifecycle) end() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	was := l.mounted
	l.endLocked()
	if was {
		l.opts.Logger.Debug("screen unmounted", zap.String("screen", l.name))
	}
	return was
}

func (l *lifecycle) endLocked() {
	if l.cancel != nil {
		l.cancel()
	}
	if l.sched != nil {
		l.sched.Stop()
	}
	l.sched, l.cancel, l.mounted = nil, nil, false
}

func (l *lifecycle) changed(feed string) {
	if l.opts.Notify != nil {
		l.opts.Notify(l.name, feed)
	}
}

// Registry looks screens up by name.
type Registry struct {
	screens map[string]Screen
}

func NewRegistry(screens ...Screen) *Registry {
	r := &Registry{screens: make(map[string]Screen, len(screens))}
	for _, s := range screens {
		r.screens[s.Name()] = s
	}
	return r
}

func (r *Registry) Get(name string) (Screen, bool) {
	s, ok := r.screens[name]
	return s, ok
}

// Names lists registered screens in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.screens))
	for n := range r.screens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UnmountAll tears every screen down.
func (r *Registry) UnmountAll() {
	for _, s := range r.screens {
		s.Unmount()
	}
}
