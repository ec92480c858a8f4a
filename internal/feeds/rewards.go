package feeds

import (
	"context"
	"errors"
	"sync"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/rewards"
)

// AchievementLimit is how many achievements the rewards screen shows.
const AchievementLimit = 4

const countdownTimer = "limited_offer_countdown"

// FeedOfferExpired is the feed name notified when the limited offer runs out.
const FeedOfferExpired = "limited_offer_expired"

// ErrNoOffer is returned when there is no limited offer to claim.
var ErrNoOffer = errors.New("feeds: no limited offer")

// RewardsSource is the platform surface behind the rewards screen.
type RewardsSource interface {
	DailyChallenge(ctx context.Context) (*models.ChallengeResponse, error)
	LimitedOffer(ctx context.Context) (*models.LimitedOffer, error)
	Milestones(ctx context.Context) (*models.MilestoneResponse, error)
	Achievements(ctx context.Context) ([]models.Achievement, error)
}

// RandomRewards drives unsolicited rewards while the screen is mounted.
type RandomRewards interface {
	StartRandom(ctx context.Context)
	StopRandom()
	Random() (models.RewardOffer, bool)
	RandomPending() bool
}

type RewardsView struct {
	Mounted       bool                      `json:"mounted"`
	Challenge     *models.ChallengeResponse `json:"daily_challenge,omitempty"`
	LimitedOffer  *models.TimedOffer        `json:"limited_offer,omitempty"`
	Milestones    *models.MilestoneResponse `json:"milestones,omitempty"`
	Achievements  []models.Achievement      `json:"achievements,omitempty"`
	RandomReward  *models.RewardOffer       `json:"random_reward,omitempty"`
	RandomPending bool                      `json:"random_pending"`
}

type RewardsScreen struct {
	lifecycle
	random RandomRewards

	challenge    *Poller[*models.ChallengeResponse]
	offer        *Poller[*models.LimitedOffer]
	milestones   *Poller[*models.MilestoneResponse]
	achievements *Poller[[]models.Achievement]

	cdMu      sync.Mutex
	countdown *rewards.Countdown
}

// NewRewardsScreen builds the rewards screen. random may be nil.
func NewRewardsScreen(src RewardsSource, random RandomRewards, opts Options) *RewardsScreen {
	opts = opts.withDefaults()
	s := &RewardsScreen{
		lifecycle: lifecycle{name: ScreenRewards, opts: opts},
		random:    random,
	}
	s.challenge = NewPoller(PollerConfig[*models.ChallengeResponse]{
		Name:  "daily_challenge",
		Fetch: src.DailyChallenge,
	}, opts.Logger)
	s.offer = NewPoller(PollerConfig[*models.LimitedOffer]{
		Name:    "limited_offer",
		Fetch:   src.LimitedOffer,
		OnValue: s.startCountdown,
	}, opts.Logger)
	s.milestones = NewPoller(PollerConfig[*models.MilestoneResponse]{
		Name:  "milestones",
		Fetch: src.Milestones,
	}, opts.Logger)
	s.achievements = NewPoller(PollerConfig[[]models.Achievement]{
		Name:  "achievements",
		Fetch: src.Achievements,
		Shape: Limit[models.Achievement](AchievementLimit),
	}, opts.Logger)
	return s
}

func (s *RewardsScreen) feeds() []feed {
	return []feed{s.challenge, s.offer, s.milestones, s.achievements}
}

func (s *RewardsScreen) Mount(ctx context.Context) {
	ctx, sched := s.begin(ctx)
	s.clearCountdown()
	startAll(ctx, sched, s.changed, s.feeds()...)
	if s.random != nil {
		s.random.StartRandom(ctx)
	}
}

func (s *RewardsScreen) Unmount() {
	s.end()
	stopAll(s.feeds()...)
	if s.random != nil {
		s.random.StopRandom()
	}
	s.clearCountdown()
}

func (s *RewardsScreen) clearCountdown() {
	s.cdMu.Lock()
	defer s.cdMu.Unlock()
	s.countdown = nil
}

// startCountdown begins counting a freshly fetched offer down, superseding
// any earlier countdown.
func (s *RewardsScreen) startCountdown(o *models.LimitedOffer) {
	if o == nil {
		return
	}
	s.lifecycle.mu.Lock()
	sched := s.sched
	s.lifecycle.mu.Unlock()
	if sched == nil {
		return
	}
	cd := rewards.StartCountdown(sched, countdownTimer, *o, func(models.LimitedOffer) {
		s.changed(FeedOfferExpired)
	})
	s.cdMu.Lock()
	s.countdown = cd
	s.cdMu.Unlock()
}

// ClaimOffer claims the counted-down limited offer once, while it has time
// left.
func (s *RewardsScreen) ClaimOffer() (models.LimitedOffer, error) {
	s.cdMu.Lock()
	cd := s.countdown
	s.cdMu.Unlock()
	if cd == nil {
		return models.LimitedOffer{}, ErrNoOffer
	}
	o, err := cd.Claim()
	if err == nil {
		s.changed("limited_offer")
	}
	return o, err
}

func (s *RewardsScreen) Snapshot() any { return s.View() }

func (s *RewardsScreen) View() RewardsView {
	v := RewardsView{Mounted: s.Mounted()}
	v.Challenge, _ = s.challenge.Value()
	v.Milestones, _ = s.milestones.Value()
	v.Achievements, _ = s.achievements.Value()

	s.cdMu.Lock()
	cd := s.countdown
	s.cdMu.Unlock()
	if cd != nil {
		snap := cd.Snapshot()
		v.LimitedOffer = &snap
	}

	if s.random != nil && v.Mounted {
		if r, ok := s.random.Random(); ok {
			v.RandomReward = &r
		}
		v.RandomPending = s.random.RandomPending()
	}
	return v
}
