package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/platformtwin"
	"github.com/AnshRaj112/innerbloom-companion/internal/rewards"
)

type twin struct {
	srv    *httptest.Server
	store  *platformtwin.Store
	client *gateway.Client
}

func newTwin(t *testing.T) *twin {
	t.Helper()
	store := platformtwin.NewStore(11)
	srv := httptest.NewServer(platformtwin.NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return &twin{srv: srv, store: store, client: gateway.New(srv.URL+platformtwin.APIPrefix, 2*time.Second, nil)}
}

func (tw *twin) fail(t *testing.T, path string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path})
	resp, err := http.Post(tw.srv.URL+"/admin/fail", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

type notifications struct {
	mu    sync.Mutex
	feeds map[string]int
}

func (n *notifications) record(screen, feed string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.feeds == nil {
		n.feeds = map[string]int{}
	}
	n.feeds[screen+"/"+feed]++
}

func (n *notifications) count(key string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.feeds[key]
}

func TestSocialProofMount(t *testing.T) {
	tw := newTwin(t)
	clk := clock.NewManual(start)
	var notes notifications
	s := NewSocialProof(tw.client, Options{Clock: clk, Notify: notes.record})

	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	if !v.Mounted {
		t.Fatal("not mounted")
	}
	if v.LiveActivity == nil || len(v.LiveActivity.Activities) != LiveActivityLimit {
		t.Fatalf("live activity = %+v, want %d entries", v.LiveActivity, LiveActivityLimit)
	}
	if len(v.Leaderboard) != SocialLeaderboardLimit {
		t.Errorf("leaderboard has %d entries, want %d", len(v.Leaderboard), SocialLeaderboardLimit)
	}
	if v.Urgency == nil || v.Energy == nil || len(v.Scarcity) == 0 {
		t.Errorf("missing feeds: %+v", v)
	}
	if v.CurrentTestimonial == nil || v.CurrentTestimonial.ID != v.Testimonials[0].ID {
		t.Errorf("current testimonial = %+v, want the first", v.CurrentTestimonial)
	}

	clk.Advance(TestimonialRotation)
	if got := s.View().CurrentTestimonial.ID; got != v.Testimonials[1].ID {
		t.Errorf("after rotation current = %s, want %s", got, v.Testimonials[1].ID)
	}

	clk.Advance(LiveActivityInterval)
	if n := notes.count("social-proof/live_activity"); n != 2 {
		t.Errorf("live activity applied %d times, want 2", n)
	}
	if n := notes.count("social-proof/testimonials"); n != 1 {
		t.Errorf("testimonials applied %d times, want 1", n)
	}
	clk.Advance(UrgencyInterval)
	if n := notes.count("social-proof/urgency_metrics"); n != 2 {
		t.Errorf("urgency applied %d times, want 2", n)
	}
}

func TestSocialProofFailSoft(t *testing.T) {
	tw := newTwin(t)
	tw.fail(t, "/social/live-activity")
	tw.fail(t, "/social/leaderboard")

	s := NewSocialProof(tw.client, Options{Clock: clock.NewManual(start)})
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	if v.LiveActivity != nil || v.Leaderboard != nil {
		t.Errorf("failed feeds present: live=%v leaderboard=%v", v.LiveActivity, v.Leaderboard)
	}
	if len(v.Testimonials) == 0 || v.Urgency == nil {
		t.Error("healthy feeds missing next to failed ones")
	}
}

func TestUnmountStopsTimers(t *testing.T) {
	tw := newTwin(t)
	clk := clock.NewManual(start)
	var notes notifications
	s := NewSocialProof(tw.client, Options{Clock: clk, Notify: notes.record})

	s.Mount(context.Background())
	s.Unmount()
	clk.Advance(10 * time.Minute)

	if n := notes.count("social-proof/live_activity"); n != 1 {
		t.Errorf("live activity applied %d times after unmount, want 1", n)
	}
	if n := notes.count("social-proof/testimonial_rotation"); n != 0 {
		t.Errorf("carousel rotated %d times after unmount", n)
	}
	v := s.View()
	if v.Mounted || v.LiveActivity != nil {
		t.Errorf("unmounted view = %+v", v)
	}
}

func TestRemountStartsOver(t *testing.T) {
	tw := newTwin(t)
	clk := clock.NewManual(start)
	var notes notifications
	s := NewSocialProof(tw.client, Options{Clock: clk, Notify: notes.record})
	defer s.Unmount()

	s.Mount(context.Background())
	s.Mount(context.Background())
	clk.Advance(LiveActivityInterval)

	// two initial loads plus one tick from the surviving mount
	if n := notes.count("social-proof/live_activity"); n != 3 {
		t.Errorf("live activity applied %d times, want 3", n)
	}
}

type fakeRandom struct {
	mu      sync.Mutex
	running bool
	starts  int
}

func (f *fakeRandom) StartRandom(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	f.starts++
}

func (f *fakeRandom) StopRandom() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeRandom) Random() (models.RewardOffer, bool) { return models.RewardOffer{}, false }

func (f *fakeRandom) RandomPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func TestRewardsScreen(t *testing.T) {
	tw := newTwin(t)
	clk := clock.NewManual(start)
	random := &fakeRandom{}
	var notes notifications
	s := NewRewardsScreen(tw.client, random, Options{Clock: clk, Notify: notes.record})

	s.Mount(context.Background())
	v := s.View()
	if v.Challenge == nil || v.Milestones == nil {
		t.Fatalf("missing feeds: %+v", v)
	}
	if len(v.Achievements) != AchievementLimit {
		t.Errorf("achievements = %d, want %d", len(v.Achievements), AchievementLimit)
	}
	if !v.RandomPending || random.starts != 1 {
		t.Error("random reward scheduler not started on mount")
	}
	if v.LimitedOffer == nil || !v.LimitedOffer.Claimable {
		t.Fatalf("limited offer = %+v", v.LimitedOffer)
	}

	total := v.LimitedOffer.RemainingSeconds
	clk.Advance(5 * time.Second)
	if got := s.View().LimitedOffer.RemainingSeconds; got != total-5 {
		t.Errorf("remaining = %d, want %d", got, total-5)
	}

	s.Unmount()
	if random.RandomPending() {
		t.Error("random reward scheduler survived unmount")
	}
	if s.View().LimitedOffer != nil {
		t.Error("countdown survived unmount")
	}
}

func TestLimitedOfferExpires(t *testing.T) {
	tw := newTwin(t)
	clk := clock.NewManual(start)
	var notes notifications
	s := NewRewardsScreen(tw.client, nil, Options{Clock: clk, Notify: notes.record})
	s.Mount(context.Background())
	defer s.Unmount()

	offer := s.View().LimitedOffer
	if offer == nil {
		t.Fatal("no limited offer")
	}
	clk.Advance(time.Duration(offer.RemainingSeconds) * time.Second)

	v := s.View()
	if !v.LimitedOffer.Expired || v.LimitedOffer.Claimable || v.LimitedOffer.Remaining != "00:00:00" {
		t.Errorf("expired offer = %+v", v.LimitedOffer)
	}
	if _, err := s.ClaimOffer(); !errors.Is(err, rewards.ErrOfferExpired) {
		t.Errorf("ClaimOffer = %v, want ErrOfferExpired", err)
	}
	if n := notes.count("rewards/limited_offer_expired"); n != 1 {
		t.Errorf("expiry notified %d times", n)
	}
}

func TestClaimLimitedOffer(t *testing.T) {
	tw := newTwin(t)
	s := NewRewardsScreen(tw.client, nil, Options{Clock: clock.NewManual(start)})

	if _, err := s.ClaimOffer(); !errors.Is(err, ErrNoOffer) {
		t.Errorf("ClaimOffer before mount = %v, want ErrNoOffer", err)
	}
	s.Mount(context.Background())
	defer s.Unmount()

	before := s.View().LimitedOffer.Offer
	got, err := s.ClaimOffer()
	if err != nil {
		t.Fatal(err)
	}
	if got.ClaimedBy != before.ClaimedBy+1 {
		t.Errorf("claimed_by = %d, want %d", got.ClaimedBy, before.ClaimedBy+1)
	}
	if _, err := s.ClaimOffer(); !errors.Is(err, rewards.ErrOfferClaimed) {
		t.Errorf("second ClaimOffer = %v, want ErrOfferClaimed", err)
	}
}

type staticUser struct{ u *models.User }

func (s staticUser) Current() *models.User { return s.u }

func TestProfileAccessFollowsProfileTier(t *testing.T) {
	tw := newTwin(t)
	s := NewProfileScreen(tw.client, staticUser{&models.User{ID: platformtwin.DemoUserID}}, Options{Clock: clock.NewManual(start)})
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	if v.Profile == nil || v.Transformation == nil || len(v.Bonding) == 0 {
		t.Fatalf("missing feeds: %+v", v)
	}
	if v.ExclusiveAccess == nil || v.ExclusiveAccess.CurrentTier != v.Profile.Tier {
		t.Errorf("access tier = %+v, profile tier %q", v.ExclusiveAccess, v.Profile.Tier)
	}
}

func TestProfileAccessDefaultsToNovice(t *testing.T) {
	tw := newTwin(t)
	tw.fail(t, "/identity/sister-profile")
	s := NewProfileScreen(tw.client, nil, Options{Clock: clock.NewManual(start)})
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	if v.Profile != nil {
		t.Error("failed profile present")
	}
	if v.ExclusiveAccess == nil || v.ExclusiveAccess.CurrentTier != models.IdentityNovice {
		t.Errorf("access = %+v, want novice", v.ExclusiveAccess)
	}
}

func TestRegistry(t *testing.T) {
	tw := newTwin(t)
	opts := Options{Clock: clock.NewManual(start)}
	r := NewRegistry(
		NewSocialProof(tw.client, opts),
		NewRewardsScreen(tw.client, nil, opts),
		NewProfileScreen(tw.client, nil, opts),
	)
	if got := r.Names(); len(got) != 3 || got[0] != ScreenProfile {
		t.Errorf("Names = %v", got)
	}
	s, ok := r.Get(ScreenRewards)
	if !ok {
		t.Fatal("rewards screen missing")
	}
	s.Mount(context.Background())
	r.UnmountAll()
	if s.Mounted() {
		t.Error("screen mounted after UnmountAll")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("unknown screen found")
	}
}
