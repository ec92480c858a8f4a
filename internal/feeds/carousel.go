package feeds

import (
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/scheduler"
)

// Carousel rotates an index over a collection whose length can change while
// it runs.
type Carousel struct {
	name     string
	interval time.Duration
	length   func() int

	mu       sync.Mutex
	index    int
	onChange func(name string)
}

func NewCarousel(name string, interval time.Duration, length func() int) *Carousel {
	return &Carousel{name: name, interval: interval, length: length}
}

// Start resets the index and rotates it every interval on sched.
func (c *Carousel) Start(sched *scheduler.Scheduler, onChange func(name string)) {
	c.mu.Lock()
	c.index = 0
	c.onChange = onChange
	c.mu.Unlock()
	sched.Every(c.name, c.interval, c.advance)
}

func (c *Carousel) advance() {
	n := c.length()
	c.mu.Lock()
	if n == 0 {
		c.index = 0
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % n
	onChange := c.onChange
	c.mu.Unlock()
	if onChange != nil {
		onChange(c.name)
	}
}

// Index returns the current position, always within the collection's bounds.
// It is 0 for an empty collection.
func (c *Carousel) Index() int {
	n := c.length()
	c.mu.Lock()
	defer c.mu.Unlock()
	if n == 0 {
		return 0
	}
	return c.index % n
}
