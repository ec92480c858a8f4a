package rewards

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoReward         = errors.New("rewards: no reward available")
	ErrNotAuthenticated = errors.New("rewards: no user logged in")
)

// Random reward delay bounds.
const (
	MinRandomDelay = 15 * time.Minute
	MaxRandomDelay = 45 * time.Minute
)

const randomTimer = "random-reward"

// Session is the part of the session manager that claiming needs.
type Session interface {
	Current() *models.User
	AwardPoints(ctx context.Context, amount int, activity, description string) bool
	Update(ctx context.Context, fn func(u *models.User)) bool
}

// RewardSource rolls a reward on the platform.
type RewardSource interface {
	RandomReward(ctx context.Context) (*models.RemoteReward, error)
}

// Config wires an Engine. A nil Remote generates random rewards locally.
type Config struct {
	Session Session
	Flags   *flags.Flags
	Remote  RewardSource
	Clock   clock.Clock
	Rand    *rand.Rand
	Logger  *zap.Logger
	NewID   func() string
}

// Engine owns the daily and random reward offers. At most one of each is
// active, and each can be claimed once.
type Engine struct {
	session Session
	flags   *flags.Flags
	remote  RewardSource
	clock   clock.Clock
	logger  *zap.Logger
	newID   func() string

	rngMu sync.Mutex
	rng   *rand.Rand

	mu             sync.Mutex
	dailyAvailable bool
	random         *models.RewardOffer
	sched          *scheduler.Scheduler
	cycle          context.Context
	cancel         context.CancelFunc
	onRandom       func(models.RewardOffer)
}

func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Engine{
		session: cfg.Session,
		flags:   cfg.Flags,
		remote:  cfg.Remote,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
		newID:   cfg.NewID,
		rng:     cfg.Rand,
	}
}

// OnRandom registers fn to run when a random reward becomes available.
func (e *Engine) OnRandom(fn func(models.RewardOffer)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRandom = fn
}

func (e *Engine) float64() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

// Generate draws a local reward with the shared selection policy.
func (e *Engine) Generate(source string) models.RewardOffer {
	o := Select(e.float64(), e.intn)
	o.ID = e.newID()
	o.Source = source
	return o
}

// CheckDaily compares today's date with the last claim date and opens the
// daily gate when they differ. It is meant to run once at session start; the
// result holds until ClaimDaily even if the date changes meanwhile.
func (e *Engine) CheckDaily(ctx context.Context) (bool, error) {
	claimedToday, err := e.flags.IsToday(ctx, models.FlagLastRewardDate)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dailyAvailable = !claimedToday
	return e.dailyAvailable, nil
}

// DailyAvailable reports the gate as of the last CheckDaily.
func (e *Engine) DailyAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dailyAvailable
}

// ClaimDaily generates the daily reward, applies it and closes the gate for
// today.
func (e *Engine) ClaimDaily(ctx context.Context) (models.RewardOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dailyAvailable {
		return models.RewardOffer{}, ErrNoReward
	}
	if e.session.Current() == nil {
		return models.RewardOffer{}, ErrNotAuthenticated
	}

	offer := e.Generate("daily")
	e.apply(ctx, offer)
	e.dailyAvailable = false
	if err := e.flags.MarkToday(ctx, models.FlagLastRewardDate); err != nil {
		e.logger.Warn("persisting daily reward date failed", zap.Error(err))
	}
	e.logger.Info("daily reward claimed",
		zap.String("kind", string(offer.Kind)),
		zap.String("rarity", offer.Rarity),
	)
	return offer, nil
}

// randomDelay is uniform over [MinRandomDelay, MaxRandomDelay] in whole
// seconds.
func (e *Engine) randomDelay() time.Duration {
	span := int((MaxRandomDelay - MinRandomDelay) / time.Second)
	return MinRandomDelay + time.Duration(e.intn(span+1))*time.Second
}

// StartRandom begins the random reward cycle: a reward fires after a random
// delay, and the next delay starts once it is claimed. Calling StartRandom
// again supersedes the pending timer.
func (e *Engine) StartRandom(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched == nil || e.sched.Stopped() {
		e.sched = scheduler.New(e.clock)
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.cycle, e.cancel = context.WithCancel(ctx)
	e.scheduleLocked(e.cycle)
}

func (e *Engine) scheduleLocked(ctx context.Context) {
	delay := e.randomDelay()
	e.sched.After(randomTimer, delay, func() { e.fireRandom(ctx) })
	e.logger.Debug("random reward scheduled", zap.Duration("delay", delay))
}

// StopRandom cancels the pending timer and any in-flight fetch, and drops an
// unclaimed random offer.
func (e *Engine) StopRandom() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched != nil {
		e.sched.Stop()
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
		e.cycle = nil
	}
	e.random = nil
}

// RandomPending reports whether the random timer is armed.
func (e *Engine) RandomPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched != nil && e.sched.Pending(randomTimer)
}

func (e *Engine) fireRandom(ctx context.Context) {
	offer := e.fetchRandom(ctx)

	e.mu.Lock()
	if ctx.Err() != nil || e.cycle != ctx {
		e.mu.Unlock()
		return
	}
	e.random = &offer
	hook := e.onRandom
	e.mu.Unlock()

	e.logger.Info("random reward available",
		zap.String("kind", string(offer.Kind)),
		zap.String("rarity", offer.Rarity),
	)
	if hook != nil {
		hook(offer)
	}
}

// fetchRandom asks the platform for a reward and falls back to a local draw.
func (e *Engine) fetchRandom(ctx context.Context) models.RewardOffer {
	if e.remote != nil {
		remote, err := e.remote.RandomReward(ctx)
		if err == nil {
			o := remote.Offer()
			o.ID = e.newID()
			o.Source = "random"
			return o
		}
		e.logger.Warn("remote random reward failed, drawing locally", zap.Error(err))
	}
	return e.Generate("random")
}

// Random returns the active random offer, if any.
func (e *Engine) Random() (models.RewardOffer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.random == nil {
		return models.RewardOffer{}, false
	}
	return *e.random, true
}

// ClaimRandom applies the active random offer if id matches, then schedules
// the next one.
func (e *Engine) ClaimRandom(ctx context.Context, id string) (models.RewardOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.random == nil || e.random.ID != id {
		return models.RewardOffer{}, ErrNoReward
	}
	if e.session.Current() == nil {
		return models.RewardOffer{}, ErrNotAuthenticated
	}
	offer := *e.random
	e.random = nil
	e.apply(ctx, offer)

	// The next timer belongs to the cycle, not to this request.
	if e.cycle != nil && !e.sched.Stopped() {
		e.scheduleLocked(e.cycle)
	}
	return offer, nil
}

// apply mutates the user according to the offer kind. Callers hold e.mu.
func (e *Engine) apply(ctx context.Context, o models.RewardOffer) {
	switch o.Kind {
	case models.KindPoints:
		e.session.AwardPoints(ctx, o.Amount, o.Source+"_reward", o.Message)
	case models.KindStreak:
		e.session.Update(ctx, func(u *models.User) {
			u.StreakDays += max(1, o.Amount)
		})
	case models.KindContentUnlock:
		e.session.Update(ctx, func(u *models.User) {
			if o.Content != "" && !u.HasContent(o.Content) {
				u.UnlockedContent = append(u.UnlockedContent, o.Content)
			}
		})
	case models.KindIdentityBoost:
		e.session.Update(ctx, func(u *models.User) {
			if o.Title != "" && !u.HasTitle(o.Title) {
				u.Titles = append(u.Titles, o.Title)
			}
		})
	case models.KindInspiration:
		// display only
	}
}
