// Package scheduler manages named timers owned by a single screen or
// component. Registering a name again supersedes the earlier timer, and Stop
// tears every timer down at once so nothing outlives its owner.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
)

type entry struct {
	timer clock.Timer
	gen   uint64
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	timers  map[string]*entry
	gen     uint64
	stopped bool
}

// New creates a Scheduler driven by c.
func New(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.Real()
	}
	return &Scheduler{
		clock:  c,
		timers: make(map[string]*entry),
	}
}

// After runs fn once after d. An existing timer with the same name is
// cancelled first. Returns false if the scheduler has been stopped.
func (s *Scheduler) After(name string, d time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.cancelLocked(name)
	s.gen++
	gen := s.gen
	e := &entry{gen: gen}
	e.timer = s.clock.AfterFunc(d, func() {
		if !s.claim(name, gen, true) {
			return
		}
		fn()
	})
	s.timers[name] = e
	return true
}

// Every runs fn every d until the name is cancelled or the scheduler stops.
// The first run happens after one full interval.
func (s *Scheduler) Every(name string, d time.Duration, fn func()) bool {
	if d <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.cancelLocked(name)
	s.gen++
	s.armLocked(name, s.gen, d, fn)
	return true
}

func (s *Scheduler) armLocked(name string, gen uint64, d time.Duration, fn func()) {
	e := &entry{gen: gen}
	e.timer = s.clock.AfterFunc(d, func() {
		if !s.claim(name, gen, false) {
			return
		}
		fn()
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.timers[name]; ok && cur.gen == gen && !s.stopped {
			s.armLocked(name, gen, d, fn)
		}
	})
	s.timers[name] = e
}

// claim reports whether the timer generation is still current. One-shot
// timers are removed from the table as they fire.
func (s *Scheduler) claim(name string, gen uint64, oneShot bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.timers[name]
	if !ok || cur.gen != gen || s.stopped {
		return false
	}
	if oneShot {
		delete(s.timers, name)
	}
	return true
}

// Cancel stops the named timer. Returns true if one was pending.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(name)
}

func (s *Scheduler) cancelLocked(name string) bool {
	e, ok := s.timers[name]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.timers, name)
	return true
}

// Pending reports whether a timer is registered under name.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[name]
	return ok
}

// Names lists registered timers in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.timers))
	for n := range s.timers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Stop cancels every timer and rejects further registrations.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.timers {
		s.cancelLocked(name)
	}
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
