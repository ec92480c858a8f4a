package feeds

import (
	"context"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
)

// ProfileSource is the platform surface behind the profile screen.
type ProfileSource interface {
	SisterProfile(ctx context.Context, userID string) (*models.SisterProfile, error)
	Transformation(ctx context.Context) (*models.Transformation, error)
	ExclusiveAccess(ctx context.Context, tier string) (*models.ExclusiveAccess, error)
	SisterhoodBonding(ctx context.Context) ([]models.BondingActivity, error)
}

// CurrentUser yields the logged-in user, or nil.
type CurrentUser interface {
	Current() *models.User
}

type ProfileView struct {
	Mounted         bool                     `json:"mounted"`
	Profile         *models.SisterProfile    `json:"profile,omitempty"`
	Transformation  *models.Transformation   `json:"transformation,omitempty"`
	ExclusiveAccess *models.ExclusiveAccess  `json:"exclusive_access,omitempty"`
	Bonding         []models.BondingActivity `json:"sisterhood_bonding,omitempty"`
}

// ProfileScreen loads the sister profile first and then requests exclusive
// access for the tier it reports.
type ProfileScreen struct {
	lifecycle
	users CurrentUser

	profile        *Poller[*models.SisterProfile]
	transformation *Poller[*models.Transformation]
	access         *Poller[*models.ExclusiveAccess]
	bonding        *Poller[[]models.BondingActivity]
}

func NewProfileScreen(src ProfileSource, users CurrentUser, opts Options) *ProfileScreen {
	opts = opts.withDefaults()
	s := &ProfileScreen{
		lifecycle: lifecycle{name: ScreenProfile, opts: opts},
		users:     users,
	}
	s.profile = NewPoller(PollerConfig[*models.SisterProfile]{
		Name: "sister_profile",
		Fetch: func(ctx context.Context) (*models.SisterProfile, error) {
			return src.SisterProfile(ctx, s.userID())
		},
	}, opts.Logger)
	s.transformation = NewPoller(PollerConfig[*models.Transformation]{
		Name:  "transformation",
		Fetch: src.Transformation,
	}, opts.Logger)
	s.access = NewPoller(PollerConfig[*models.ExclusiveAccess]{
		Name: "exclusive_access",
		Fetch: func(ctx context.Context) (*models.ExclusiveAccess, error) {
			return src.ExclusiveAccess(ctx, s.tier())
		},
	}, opts.Logger)
	s.bonding = NewPoller(PollerConfig[[]models.BondingActivity]{
		Name:  "sisterhood_bonding",
		Fetch: src.SisterhoodBonding,
	}, opts.Logger)
	return s
}

func (s *ProfileScreen) userID() string {
	if s.users != nil {
		if u := s.users.Current(); u != nil && u.ID != "" {
			return u.ID
		}
	}
	return session.DemoUserID
}

// tier is the profile's identity tier, defaulting to novice until the
// profile has loaded.
func (s *ProfileScreen) tier() string {
	if p, ok := s.profile.Value(); ok && p != nil && p.Tier != "" {
		return p.Tier
	}
	return models.IdentityNovice
}

func (s *ProfileScreen) Mount(ctx context.Context) {
	ctx, sched := s.begin(ctx)
	startAll(ctx, sched, s.changed, chained{s.profile, s.access}, s.transformation, s.bonding)
}

func (s *ProfileScreen) Unmount() {
	s.end()
	stopAll(s.profile, s.transformation, s.access, s.bonding)
}

func (s *ProfileScreen) Snapshot() any { return s.View() }

func (s *ProfileScreen) View() ProfileView {
	v := ProfileView{Mounted: s.Mounted()}
	v.Profile, _ = s.profile.Value()
	v.Transformation, _ = s.transformation.Value()
	v.ExclusiveAccess, _ = s.access.Value()
	v.Bonding, _ = s.bonding.Value()
	return v
}
