package rewards

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/scheduler"
)

var (
	ErrOfferExpired = errors.New("rewards: offer expired")
	ErrOfferClaimed = errors.New("rewards: offer already claimed")
	ErrOfferSoldOut = errors.New("rewards: no spots remaining")
)

// FormatClock renders seconds as zero-padded HH:MM:SS. Negative input renders
// as zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Countdown ticks a LimitedOffer down once per second on a scheduler. It is
// approximate: each tick subtracts one second regardless of drift.
type Countdown struct {
	mu        sync.Mutex
	offer     models.LimitedOffer
	remaining int
	claimed   bool
	sched     *scheduler.Scheduler
	name      string
	onExpire  func(models.LimitedOffer)
}

// StartCountdown begins counting offer down on sched under the timer name.
// onExpire, if set, runs once when the countdown reaches zero.
func StartCountdown(sched *scheduler.Scheduler, name string, offer models.LimitedOffer, onExpire func(models.LimitedOffer)) *Countdown {
	c := &Countdown{
		offer:     offer,
		remaining: max(0, offer.ExpiresInMinutes*60),
		sched:     sched,
		name:      name,
		onExpire:  onExpire,
	}
	if c.remaining > 0 {
		sched.Every(name, time.Second, c.tick)
	}
	return c
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.remaining <= 0 || c.claimed {
		c.mu.Unlock()
		c.sched.Cancel(c.name)
		return
	}
	c.remaining--
	expired := c.remaining == 0
	offer := c.offer
	c.mu.Unlock()

	if expired {
		c.sched.Cancel(c.name)
		if c.onExpire != nil {
			c.onExpire(offer)
		}
	}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Claim marks the offer taken. Expired and sold out offers can't be claimed.
func (c *Countdown) Claim() (models.LimitedOffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.remaining <= 0:
		return models.LimitedOffer{}, ErrOfferExpired
	case c.claimed:
		return models.LimitedOffer{}, ErrOfferClaimed
	case c.offer.SpotsRemaining <= 0:
		return models.LimitedOffer{}, ErrOfferSoldOut
	}
	c.claimed = true
	c.offer.ClaimedBy++
	c.offer.SpotsRemaining--
	c.sched.Cancel(c.name)
	return c.offer, nil
}

// Snapshot returns the offer's current view state.
func (c *Countdown) Snapshot() models.TimedOffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	expired := c.remaining <= 0
	return models.TimedOffer{
		Offer:            c.offer,
		RemainingSeconds: c.remaining,
		Remaining:        FormatClock(c.remaining),
		Expired:          expired,
		Claimed:          c.claimed,
		Claimable:        !expired && !c.claimed && c.offer.SpotsRemaining > 0,
	}
}
