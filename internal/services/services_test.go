package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/platformtwin"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
)

var start = time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

type env struct {
	clk     *clock.Manual
	flags   *flags.Flags
	session *session.Manager
	client  *gateway.Client
	srv     *httptest.Server
}

func newEnv(t *testing.T, loggedIn bool) *env {
	t.Helper()
	store := platformtwin.NewStore(3)
	srv := httptest.NewServer(platformtwin.NewRouter(store, nil))
	t.Cleanup(srv.Close)

	e := &env{clk: clock.NewManual(start), srv: srv}
	e.flags = flags.New(flags.NewMemoryStore(), e.clk, nil, nil)
	e.session = session.New(session.Config{Flags: e.flags, Clock: e.clk})
	t.Cleanup(e.session.Close)
	e.client = gateway.New(srv.URL+platformtwin.APIPrefix, 2*time.Second, nil)

	if loggedIn {
		if _, err := e.session.Login(context.Background(), "ana.maria@example.com", "secret"); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func (e *env) fail(t *testing.T, path string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path})
	resp, err := http.Post(e.srv.URL+"/admin/fail", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestOnboardingGates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	o := NewOnboarding(e.flags, e.session)

	st, err := o.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.ShowLanding || st.ShowWelcome || st.HasDoneInitiation {
		t.Errorf("fresh state = %+v", st)
	}

	if err := o.StartBlooming(ctx); err != nil {
		t.Fatal(err)
	}
	if show, _ := o.ShouldShowLanding(ctx); show {
		t.Error("landing shown after StartBlooming")
	}

	if shown, _ := o.ConsumeWelcome(ctx); shown {
		t.Error("welcome shown without a user")
	}
	e.session.Login(ctx, "ana@example.com", "pw")
	if shown, _ := o.ConsumeWelcome(ctx); !shown {
		t.Error("welcome not shown to the first user")
	}
	if shown, _ := o.ConsumeWelcome(ctx); shown {
		t.Error("welcome shown twice")
	}
}

func TestCompleteInitiationStoresBloomName(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	o := NewOnboarding(e.flags, e.session)

	if err := o.CompleteInitiation(ctx, "Morning Lotus", ""); err != nil {
		t.Fatal(err)
	}
	if done, _ := e.flags.Bool(ctx, models.FlagHasDoneInitiation); !done {
		t.Error("initiation flag not set")
	}
	u := e.session.Current()
	if u.BloomName != "Morning Lotus" {
		t.Errorf("bloom name = %q", u.BloomName)
	}
	if u.BloomBackstory == "" {
		t.Error("empty backstory overwrote the existing one")
	}
}

func TestDailyAffirmationCachesPerDay(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	d := NewDailyAffirmation(e.flags, e.client, e.session, nil)

	first := d.Today(ctx)
	if first == "" || first == DefaultAffirmation {
		t.Fatalf("first affirmation = %q", first)
	}
	e.fail(t, "/ai/affirmation")
	if got := d.Today(ctx); got != first {
		t.Errorf("same-day affirmation = %q, want cached %q", got, first)
	}

	// Next day the fetch fails, so yesterday's text is the fallback.
	e.clk.Advance(24 * time.Hour)
	if got := d.Today(ctx); got != first {
		t.Errorf("fallback = %q, want %q", got, first)
	}
	if _, fresh, _ := e.flags.Daily(ctx, models.FlagAffirmationDate, models.FlagDailyAffirmation); fresh {
		t.Error("fallback was cached as today's affirmation")
	}
}

func TestDailyAffirmationDefault(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	e.fail(t, "/ai/affirmation")
	d := NewDailyAffirmation(e.flags, e.client, e.session, nil)

	if got := d.Today(ctx); got != DefaultAffirmation {
		t.Errorf("Today = %q, want default", got)
	}

	loggedOut := newEnv(t, false)
	d = NewDailyAffirmation(loggedOut.flags, loggedOut.client, loggedOut.session, nil)
	if got := d.Today(ctx); got != DefaultAffirmation {
		t.Errorf("logged out Today = %q, want default", got)
	}
}

func TestChatAwardsPoints(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	c := NewCompanion(e.client, e.session, nil, nil)
	before := e.session.Current().Points

	reply, err := c.Chat(ctx, "I feel stuck today")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Response == "" {
		t.Error("empty reply")
	}
	u := e.session.Current()
	if u.Points != before+ChatPoints {
		t.Errorf("points = %d, want %d", u.Points, before+ChatPoints)
	}
	if a := u.RecentActivities[0]; a.Activity != "ai_chat" || a.Description != "Chatted with Bloom AI" {
		t.Errorf("activity = %+v", a)
	}

	if _, err := c.Chat(ctx, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank message = %v", err)
	}
}

func TestChatFailureAwardsNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	e.fail(t, "/ai/chat")
	c := NewCompanion(e.client, e.session, nil, nil)
	before := e.session.Current().Points

	if _, err := c.Chat(ctx, "hello"); !errors.Is(err, gateway.ErrNoData) {
		t.Errorf("Chat = %v, want ErrNoData", err)
	}
	if got := e.session.Current().Points; got != before {
		t.Errorf("points = %d, want %d", got, before)
	}
}

type fakeArchive struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeArchive) Archive(_ context.Context, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	return "https://res.example.com/" + name, nil
}

func TestDownloadGuide(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	archive := &fakeArchive{}
	c := NewCompanion(e.client, e.session, archive, nil)
	before := e.session.Current().Points

	g, err := c.DownloadGuide(ctx, "business-guide")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(g.Data, []byte("%PDF")) {
		t.Error("guide is not a PDF")
	}
	if !strings.HasPrefix(g.Filename, "business-guide_") || !strings.HasSuffix(g.Filename, ".pdf") {
		t.Errorf("filename = %q", g.Filename)
	}
	if g.ArchiveURL == "" || len(archive.names) != 1 {
		t.Errorf("archive url = %q, uploads %v", g.ArchiveURL, archive.names)
	}
	u := e.session.Current()
	if u.Points != before+GuidePoints {
		t.Errorf("points = %d, want %d", u.Points, before+GuidePoints)
	}
	if a := u.RecentActivities[0]; a.Description != "Downloaded business-guide guide" {
		t.Errorf("description = %q", a.Description)
	}

	if _, err := c.DownloadGuide(ctx, "cooking-guide"); !errors.Is(err, ErrUnknownGuide) {
		t.Errorf("unknown guide = %v", err)
	}
}

func TestDownloadSurvivesArchiveFailure(t *testing.T) {
	e := newEnv(t, true)
	c := NewCompanion(e.client, e.session, &fakeArchive{err: errors.New("quota")}, nil)
	g, err := c.DownloadGuide(context.Background(), "parenting-guide")
	if err != nil {
		t.Fatal(err)
	}
	if g.ArchiveURL != "" {
		t.Errorf("archive url = %q after failure", g.ArchiveURL)
	}
}

func TestGuideFilename(t *testing.T) {
	tests := map[string]string{
		"Ana Maria Lopez": "empowerment-guide_Ana_Maria_Lopez.pdf",
		"Ana":             "empowerment-guide_Ana.pdf",
		"":                "empowerment-guide_Sister.pdf",
	}
	for in, want := range tests {
		if got := GuideFilename("empowerment-guide", in); got != want {
			t.Errorf("GuideFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSendHug(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	c := NewCompanion(e.client, e.session, nil, nil)
	before := e.session.Current()

	total, err := c.SendHug(ctx, "sending love")
	if err != nil {
		t.Fatal(err)
	}
	after := e.session.Current()
	if total != before.TotalHugsSent+1 || after.TotalHugsSent != total {
		t.Errorf("hugs = %d (returned %d), want %d", after.TotalHugsSent, total, before.TotalHugsSent+1)
	}
	if after.Points != before.Points {
		t.Error("hug awarded points")
	}

	e.session.Logout(ctx)
	if _, err := c.SendHug(ctx, ""); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("logged out SendHug = %v", err)
	}
}

type countingStats struct {
	calls int
	err   error
}

func (c *countingStats) Stats(context.Context) (*models.PlatformStats, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.PlatformStats{TotalUsers: 1000 + c.calls}, nil
}

func (c *countingStats) Leaderboard(context.Context) ([]models.Leader, error) {
	c.calls++
	return []models.Leader{{Rank: 1, Name: "Ana"}}, c.err
}

func TestStatsAreCached(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(start)
	remote := &countingStats{}
	s := NewStatsService(remote, NewMemoryCache(clk), nil)

	first, err := s.Stats(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := s.Stats(ctx, false); again.TotalUsers != first.TotalUsers || remote.calls != 1 {
		t.Errorf("cached read hit the remote: calls=%d", remote.calls)
	}

	clk.Advance(StatsTTL)
	if next, _ := s.Stats(ctx, false); next.TotalUsers == first.TotalUsers {
		t.Error("expired entry served")
	}

	remote.err = errors.New("down")
	got, err := s.Stats(ctx, true)
	if err != nil || got == nil {
		t.Fatalf("forced refresh with remote down = %v, %v; want cached value", got, err)
	}

	clk.Advance(StatsTTL)
	if _, err := s.Stats(ctx, false); err == nil {
		t.Error("expired cache and remote down returned no error")
	}
}

func TestStatsAgainstTwin(t *testing.T) {
	e := newEnv(t, false)
	s := NewStatsService(e.client, NewMemoryCache(e.clk), nil)
	stats, err := s.Stats(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalUsers == 0 {
		t.Error("empty stats")
	}
	leaders, err := s.Leaderboard(context.Background(), false)
	if err != nil || len(leaders) == 0 || leaders[0].Rank != 1 {
		t.Errorf("Leaderboard = %+v, %v", leaders, err)
	}
}
