package feeds

import (
	"context"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
)

// Social proof refresh cadence and display limits.
const (
	LiveActivityInterval   = 30 * time.Second
	UrgencyInterval        = 60 * time.Second
	TestimonialRotation    = 8 * time.Second
	LiveActivityLimit      = 8
	SocialLeaderboardLimit = 5
)

// SocialSource is the platform surface behind the social proof screen.
type SocialSource interface {
	LiveActivity(ctx context.Context) (*models.LiveActivityFeed, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
	UrgencyMetrics(ctx context.Context) (*models.UrgencyMetrics, error)
	ScarcityAlerts(ctx context.Context) ([]models.ScarcityAlert, error)
	CommunityEnergy(ctx context.Context) (*models.CommunityEnergy, error)
	SocialLeaderboard(ctx context.Context) ([]models.RankedSister, error)
}

// SocialProofView is the social proof screen as rendered. Absent feeds are
// omitted.
type SocialProofView struct {
	Mounted            bool                     `json:"mounted"`
	LiveActivity       *models.LiveActivityFeed `json:"live_activity,omitempty"`
	Testimonials       []models.Testimonial     `json:"testimonials,omitempty"`
	CurrentTestimonial *models.Testimonial      `json:"current_testimonial,omitempty"`
	Urgency            *models.UrgencyMetrics   `json:"urgency_metrics,omitempty"`
	Scarcity           []models.ScarcityAlert   `json:"scarcity_alerts,omitempty"`
	Energy             *models.CommunityEnergy  `json:"community_energy,omitempty"`
	Leaderboard        []models.RankedSister    `json:"leaderboard,omitempty"`
}

type SocialProof struct {
	lifecycle

	live         *Poller[*models.LiveActivityFeed]
	testimonials *Poller[[]models.Testimonial]
	urgency      *Poller[*models.UrgencyMetrics]
	scarcity     *Poller[[]models.ScarcityAlert]
	energy       *Poller[*models.CommunityEnergy]
	leaderboard  *Poller[[]models.RankedSister]
	carousel     *Carousel
}

func NewSocialProof(src SocialSource, opts Options) *SocialProof {
	opts = opts.withDefaults()
	s := &SocialProof{lifecycle: lifecycle{name: ScreenSocialProof, opts: opts}}
	s.live = NewPoller(PollerConfig[*models.LiveActivityFeed]{
		Name:     "live_activity",
		Interval: LiveActivityInterval,
		Fetch:    src.LiveActivity,
		Shape: func(f *models.LiveActivityFeed) *models.LiveActivityFeed {
			if f == nil {
				return nil
			}
			out := *f
			out.Activities = Limit[models.Activity](LiveActivityLimit)(f.Activities)
			return &out
		},
	}, opts.Logger)
	s.testimonials = NewPoller(PollerConfig[[]models.Testimonial]{
		Name:  "testimonials",
		Fetch: src.Testimonials,
	}, opts.Logger)
	s.urgency = NewPoller(PollerConfig[*models.UrgencyMetrics]{
		Name:     "urgency_metrics",
		Interval: UrgencyInterval,
		Fetch:    src.UrgencyMetrics,
	}, opts.Logger)
	s.scarcity = NewPoller(PollerConfig[[]models.ScarcityAlert]{
		Name:  "scarcity_alerts",
		Fetch: src.ScarcityAlerts,
	}, opts.Logger)
	s.energy = NewPoller(PollerConfig[*models.CommunityEnergy]{
		Name:  "community_energy",
		Fetch: src.CommunityEnergy,
	}, opts.Logger)
	s.leaderboard = NewPoller(PollerConfig[[]models.RankedSister]{
		Name:  "leaderboard",
		Fetch: src.SocialLeaderboard,
		Shape: Limit[models.RankedSister](SocialLeaderboardLimit),
	}, opts.Logger)
	s.carousel = NewCarousel("testimonial_rotation", TestimonialRotation, func() int {
		t, _ := s.testimonials.Value()
		return len(t)
	})
	return s
}

func (s *SocialProof) feeds() []feed {
	return []feed{s.live, s.testimonials, s.urgency, s.scarcity, s.energy, s.leaderboard}
}

func (s *SocialProof) Mount(ctx context.Context) {
	ctx, sched := s.begin(ctx)
	startAll(ctx, sched, s.changed, s.feeds()...)
	s.carousel.Start(sched, s.changed)
}

func (s *SocialProof) Unmount() {
	s.end()
	stopAll(s.feeds()...)
}

func (s *SocialProof) Snapshot() any { return s.View() }

// View returns the current state of every feed.
func (s *SocialProof) View() SocialProofView {
	v := SocialProofView{Mounted: s.Mounted()}
	v.LiveActivity, _ = s.live.Value()
	v.Testimonials, _ = s.testimonials.Value()
	if len(v.Testimonials) > 0 {
		current := v.Testimonials[s.carousel.Index()%len(v.Testimonials)]
		v.CurrentTestimonial = &current
	}
	v.Urgency, _ = s.urgency.Value()
	v.Scarcity, _ = s.scarcity.Value()
	v.Energy, _ = s.energy.Value()
	v.Leaderboard, _ = s.leaderboard.Value()
	return v
}
