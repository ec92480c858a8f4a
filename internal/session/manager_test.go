package session

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
	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/platformtwin"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
)

var start = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]models.PointActivity
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]models.PointActivity)}
}

func (l *fakeLedger) Record(_ context.Context, a models.PointActivity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[a.ID] = a
	return nil
}

func (l *fakeLedger) MarkSynced(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.entries[id]
	if !ok {
		return errors.New("unknown activity")
	}
	a.Synced = true
	l.entries[id] = a
	return nil
}

func (l *fakeLedger) synced() (synced, pending int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.entries {
		if a.Synced {
			synced++
		} else {
			pending++
		}
	}
	return synced, pending
}

func newOffline(t *testing.T, store flags.Store) *Manager {
	t.Helper()
	m := New(Config{Flags: flags.New(store, clock.NewManual(start), nil, nil), Clock: clock.NewManual(start)})
	t.Cleanup(m.Close)
	return m
}

// withSnapshot seeds store with a persisted user so Restore starts from it.
func withSnapshot(t *testing.T, u *models.User) flags.Store {
	t.Helper()
	store := flags.NewMemoryStore()
	if err := flags.New(store, nil, nil, nil).SaveUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return store
}

type twinHarness struct {
	srv    *httptest.Server
	store  *platformtwin.Store
	ledger *fakeLedger
	m      *Manager
}

func newOnline(t *testing.T) *twinHarness {
	t.Helper()
	twin := platformtwin.NewStore(3)
	srv := httptest.NewServer(platformtwin.NewRouter(twin, nil))
	t.Cleanup(srv.Close)

	ledger := newFakeLedger()
	m := New(Config{
		Flags:  flags.New(flags.NewMemoryStore(), nil, nil, nil),
		Remote: gateway.New(srv.URL+platformtwin.APIPrefix, 2*time.Second, nil),
		Ledger: ledger,
		Clock:  clock.NewManual(start),
	})
	return &twinHarness{srv: srv, store: twin, ledger: ledger, m: m}
}

func (h *twinHarness) fail(t *testing.T, path string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path})
	resp, err := http.Post(h.srv.URL+"/admin/fail", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestConcurrentAwardsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	m := newOffline(t, withSnapshot(t, &models.User{ID: "u1", Points: 100, Level: 2}))
	if m.Restore(ctx) == nil {
		t.Fatal("snapshot not restored")
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AwardPoints(ctx, 10, "test", "race")
		}()
	}
	wg.Wait()

	if got := m.Current().Points; got != 120 {
		t.Fatalf("points = %d, want 120", got)
	}
}

func TestManyConcurrentAwards(t *testing.T) {
	ctx := context.Background()
	m := newOffline(t, withSnapshot(t, &models.User{ID: "u1", Points: 0, Level: 1}))
	m.Restore(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AwardPoints(ctx, 5, "test", "burst")
		}()
	}
	wg.Wait()

	u := m.Current()
	if u.Points != 500 {
		t.Errorf("points = %d, want 500", u.Points)
	}
	if u.Level != 6 {
		t.Errorf("level = %d, want 6", u.Level)
	}
	if len(u.RecentActivities) != recentActivityLimit {
		t.Errorf("recent activities = %d, want %d", len(u.RecentActivities), recentActivityLimit)
	}
}

func TestLogoutMakesMutationsNoOps(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	m := newOffline(t, store)

	if _, err := m.Login(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	m.Logout(ctx)

	sent := 3
	if m.UpdateUser(ctx, models.UserPatch{TotalHugsSent: &sent}) {
		t.Error("UpdateUser applied after logout")
	}
	if m.AwardPoints(ctx, 10, "test", "after logout") {
		t.Error("AwardPoints applied after logout")
	}
	if m.Current() != nil {
		t.Error("user still present after logout")
	}
	if _, ok, _ := store.Get(ctx, models.FlagUserSnapshot); ok {
		t.Error("snapshot survived logout")
	}
}

func TestLoginFabricatesDemoUserAndPersists(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	m := newOffline(t, store)

	u, err := m.Login(ctx, " Ana@Example.com", "anything")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != DemoUserID || u.SubscriptionTier != models.TierVIP || u.Points != 2450 || u.Level != 15 || u.StreakDays != 7 {
		t.Errorf("unexpected demo user %+v", u)
	}
	if u.Name != "Ana" {
		t.Errorf("name = %q, want Ana", u.Name)
	}

	reloaded := newOffline(t, store)
	got := reloaded.Restore(ctx)
	if got == nil || got.Email != "ana@example.com" {
		t.Fatalf("Restore = %+v", got)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	m := newOffline(t, flags.NewMemoryStore())
	if _, err := m.Login(context.Background(), "", "pw"); err == nil {
		t.Error("empty email accepted")
	}
	if m.Authenticated() {
		t.Error("authenticated after failed login")
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	m := newOffline(t, flags.NewMemoryStore())

	_, err := m.Signup(context.Background(), "ana@example.com", "one", "two")
	var ve *utils.ValidationError
	if !errors.As(err, &ve) || ve.Field != "confirm_password" {
		t.Fatalf("err = %v, want confirm_password validation error", err)
	}
	if m.Authenticated() {
		t.Error("authenticated after failed signup")
	}
}

func TestUpdateCannotRegressProgress(t *testing.T) {
	ctx := context.Background()
	m := newOffline(t, flags.NewMemoryStore())
	m.Login(ctx, "ana@example.com", "pw")

	lower := 10
	name := "Ana Bloom"
	m.UpdateUser(ctx, models.UserPatch{Points: &lower, Name: &name})

	u := m.Current()
	if u.Points != 2450 || u.Level != 15 {
		t.Errorf("progress regressed to %d/%d", u.Points, u.Level)
	}
	if u.Name != name {
		t.Errorf("name = %q, want %q", u.Name, name)
	}
}

func TestAwardLiftsLevel(t *testing.T) {
	ctx := context.Background()
	m := newOffline(t, withSnapshot(t, &models.User{ID: "u1", Points: 190, Level: 2}))
	m.Restore(ctx)

	m.AwardPoints(ctx, 20, "ai_chat", "Chatted with Bloom AI")
	if got := m.Current().Level; got != 3 {
		t.Errorf("level = %d, want 3", got)
	}
}

func TestSubscribeSeesChanges(t *testing.T) {
	ctx := context.Background()
	m := newOffline(t, flags.NewMemoryStore())

	var mu sync.Mutex
	var seen []*models.User
	cancel := m.Subscribe(func(u *models.User) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, u)
	})

	m.Login(ctx, "ana@example.com", "pw")
	m.AwardPoints(ctx, 5, "ai_chat", "chat")
	m.Logout(ctx)
	cancel()
	m.Login(ctx, "ana@example.com", "pw")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Fatalf("notifications = %d, want 3", len(seen))
	}
	if seen[1].Points != 2455 {
		t.Errorf("second notification points = %d", seen[1].Points)
	}
	if seen[2] != nil {
		t.Error("logout notification carried a user")
	}
}

func TestAwardSyncsAndReconciles(t *testing.T) {
	ctx := context.Background()
	h := newOnline(t)
	h.m.Login(ctx, "ana@example.com", "pw")

	h.m.AwardPoints(ctx, 20, "pdf_download", "Downloaded parenting-guide guide")
	h.m.Close()

	if got := h.store.User(DemoUserID).Points; got != 2470 {
		t.Errorf("remote points = %d, want 2470", got)
	}
	u := h.m.Current()
	if u.Points != 2470 {
		t.Errorf("local points = %d, want 2470", u.Points)
	}
	if u.Name != "Demo User" {
		t.Errorf("name = %q, want the platform's record to win", u.Name)
	}
	if synced, pending := h.ledger.synced(); synced != 1 || pending != 0 {
		t.Errorf("ledger synced=%d pending=%d, want 1/0", synced, pending)
	}
}

func TestFailedRemoteWriteKeepsLocalTotal(t *testing.T) {
	ctx := context.Background()
	h := newOnline(t)
	h.fail(t, "/user/demo_user/points")
	h.m.Login(ctx, "ana@example.com", "pw")

	h.m.AwardPoints(ctx, 20, "ai_chat", "Chatted with Bloom AI")
	h.m.Close()

	if got := h.m.Current().Points; got != 2470 {
		t.Errorf("local points = %d, want 2470", got)
	}
	if got := h.store.User(DemoUserID).Points; got != 2450 {
		t.Errorf("remote points = %d, want unchanged 2450", got)
	}
	if synced, pending := h.ledger.synced(); synced != 0 || pending != 1 {
		t.Errorf("ledger synced=%d pending=%d, want 0/1", synced, pending)
	}
}

func TestRefreshKeepsHigherProgress(t *testing.T) {
	ctx := context.Background()
	h := newOnline(t)
	t.Cleanup(h.m.Close)
	h.m.Login(ctx, "ana@example.com", "pw")
	h.m.Update(ctx, func(u *models.User) { u.UnlockedContent = append(u.UnlockedContent, "VIP_LOUNGE") })

	remote := h.store.User(DemoUserID)
	remote.Points = 3000
	remote.Name = "Remote Name"
	h.store.SetUser(remote)
	h.m.Refresh(ctx)

	u := h.m.Current()
	if u.Points != 3000 || u.Name != "Remote Name" {
		t.Fatalf("after refresh: points=%d name=%q", u.Points, u.Name)
	}
	if !u.HasContent("VIP_LOUNGE") {
		t.Error("locally unlocked content lost on refresh")
	}

	remote.Points = 100
	h.store.SetUser(remote)
	h.m.Refresh(ctx)
	if got := h.m.Current().Points; got != 3000 {
		t.Errorf("points = %d, want 3000 kept", got)
	}
}

func TestRestoreFailSoftWhenPlatformDown(t *testing.T) {
	ctx := context.Background()
	h := newOnline(t)
	t.Cleanup(h.m.Close)
	h.m.Login(ctx, "ana@example.com", "pw")
	h.fail(t, "/user/demo_user")

	h.m.Refresh(ctx)
	if got := h.m.Current(); got == nil || got.Points != 2450 {
		t.Errorf("user after failed refresh = %+v", got)
	}
}
