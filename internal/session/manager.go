// Package session owns the current authenticated user. Every read and write
// of the user goes through Manager; mutations are serialized so concurrent
// awards never lose an increment.
package session

import (
	"context"
	"sync"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
	"go.uber.org/zap"
)

// DemoUserID is the id every demo login maps to.
const DemoUserID = "demo_user"

const recentActivityLimit = 10

// Remote is the slice of the platform the manager talks to.
type Remote interface {
	User(ctx context.Context, id string) (*models.User, error)
	AwardPoints(ctx context.Context, userID string, req gateway.PointsRequest) error
}

// Ledger records point awards and their sync state.
type Ledger interface {
	Record(ctx context.Context, a models.PointActivity) error
	MarkSynced(ctx context.Context, id string) error
}

// Config wires a Manager. Remote and Ledger may be nil for offline use.
type Config struct {
	Flags     *flags.Flags
	Remote    Remote
	Ledger    Ledger
	Clock     clock.Clock
	Logger    *zap.Logger
	NewID     func() string
	QueueSize int
}

// Manager is the single source of truth for the current user.
type Manager struct {
	mu   sync.Mutex
	user *models.User

	flags  *flags.Flags
	remote Remote
	ledger Ledger
	clock  clock.Clock
	logger *zap.Logger
	newID  func() string

	subMu   sync.Mutex
	subs    map[int]func(*models.User)
	nextSub int

	sync *reconciler
}

// New creates a Manager and starts its reconciliation worker.
func New(cfg Config) *Manager {
	if cfg.Flags == nil {
		cfg.Flags = flags.New(flags.NewMemoryStore(), cfg.Clock, nil, cfg.Logger)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NewID == nil {
		cfg.NewID = newActivityID
	}
	m := &Manager{
		flags:  cfg.Flags,
		remote: cfg.Remote,
		ledger: cfg.Ledger,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		newID:  cfg.NewID,
		subs:   make(map[int]func(*models.User)),
	}
	if cfg.Remote != nil {
		m.sync = newReconciler(m, cfg.QueueSize)
	}
	return m
}

// Close stops the reconciliation worker after draining queued writes.
func (m *Manager) Close() {
	if m.sync != nil {
		m.sync.close()
	}
}

// Current returns a copy of the current user, or nil when logged out.
func (m *Manager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// Subscribe registers fn to be called with a copy of the user after every
// change (nil after logout). The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(*models.User)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(u *models.User) {
	m.subMu.Lock()
	fns := make([]func(*models.User), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(u.Clone())
	}
}

// persistLocked writes the snapshot. Callers hold m.mu so snapshots land in
// mutation order.
func (m *Manager) persistLocked(ctx context.Context) {
	var err error
	if m.user == nil {
		err = m.flags.ClearUser(ctx)
	} else {
		err = m.flags.SaveUser(ctx, m.user)
	}
	if err != nil {
		m.logger.Warn("persisting user snapshot failed", zap.Error(err))
	}
}

// Login authenticates with the demo contract: any non-empty credentials
// produce the fixed VIP record.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := utils.ValidateLogin(email, password); err != nil {
		return nil, err
	}
	return m.establish(ctx, email), nil
}

// Signup validates the form, including password confirmation, then logs in.
func (m *Manager) Signup(ctx context.Context, email, password, confirm string) (*models.User, error) {
	if err := utils.ValidateSignup(email, password, confirm); err != nil {
		return nil, err
	}
	return m.establish(ctx, email), nil
}

func (m *Manager) establish(ctx context.Context, email string) *models.User {
	u := demoUser(email, m.clock.Now())

	m.mu.Lock()
	m.user = u
	m.persistLocked(ctx)
	out := m.user.Clone()
	m.mu.Unlock()

	m.logger.Info("user logged in", zap.String("user_id", u.ID))
	m.notify(out)
	return out
}

// Logout clears the user and the persisted snapshot.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	had := m.user != nil
	m.user = nil
	m.persistLocked(ctx)
	m.mu.Unlock()

	if had {
		m.logger.Info("user logged out")
		m.notify(nil)
	}
}

// Update applies fn to the current user under the manager's lock. It is a
// no-op returning false when no user is logged in. Points and level never go
// below their previous values, and level never trails the level its points
// earn.
func (m *Manager) Update(ctx context.Context, fn func(u *models.User)) bool {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return false
	}
	prev := m.user.Clone()
	fn(m.user)
	m.user.ID = prev.ID
	enforceProgress(m.user, prev)
	m.persistLocked(ctx)
	out := m.user.Clone()
	m.mu.Unlock()

	m.notify(out)
	return true
}

// UpdateUser shallow-merges patch into the current user. A silent no-op when
// logged out.
func (m *Manager) UpdateUser(ctx context.Context, patch models.UserPatch) bool {
	return m.Update(ctx, patch.Apply)
}

// AwardPoints applies the award locally, persists, and queues the remote
// write. The local increment is never rolled back if the remote write fails;
// a later successful refresh reconciles with the platform.
func (m *Manager) AwardPoints(ctx context.Context, amount int, activity, description string) bool {
	if amount <= 0 {
		return false
	}

	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return false
	}
	entry := models.PointActivity{
		ID:          m.newID(),
		UserID:      m.user.ID,
		Points:      amount,
		Activity:    activity,
		Description: description,
		CreatedAt:   m.clock.Now(),
	}
	prev := m.user.Clone()
	m.user.Points += amount
	m.user.RecentActivities = prependActivity(m.user.RecentActivities, entry)
	enforceProgress(m.user, prev)
	m.persistLocked(ctx)
	out := m.user.Clone()
	m.mu.Unlock()

	if m.ledger != nil {
		if err := m.ledger.Record(ctx, entry); err != nil {
			m.logger.Warn("recording point activity failed", zap.String("activity", activity), zap.Error(err))
		}
	}
	if m.sync != nil {
		m.sync.enqueue(entry)
	}
	m.notify(out)
	return true
}

// Restore loads the persisted snapshot and, when a remote is configured,
// refreshes it from the platform. Remote failures leave the snapshot in
// place.
func (m *Manager) Restore(ctx context.Context) *models.User {
	u, err := m.flags.LoadUser(ctx)
	if err != nil {
		m.logger.Warn("loading user snapshot failed", zap.Error(err))
	}
	if u == nil {
		return nil
	}

	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
	m.notify(u)

	if m.remote != nil {
		m.Refresh(ctx)
	}
	return m.Current()
}

// Refresh fetches the current user from the platform and reconciles.
func (m *Manager) Refresh(ctx context.Context) {
	if m.remote == nil {
		return
	}
	id := ""
	if u := m.Current(); u != nil {
		id = u.ID
	}
	if id == "" {
		return
	}
	remote, err := m.remote.User(ctx, id)
	if err != nil {
		m.logger.Warn("refreshing user failed", zap.String("user_id", id), zap.Error(err))
		return
	}
	m.reconcile(ctx, remote)
}

// reconcile merges the platform's record into the current user. The remote
// record wins, except that progress counters keep the higher value and
// locally unlocked content and titles are kept.
func (m *Manager) reconcile(ctx context.Context, remote *models.User) bool {
	m.mu.Lock()
	if m.user == nil || remote == nil || remote.ID != m.user.ID {
		m.mu.Unlock()
		return false
	}
	local := m.user
	merged := remote.Clone()
	merged.Points = max(merged.Points, local.Points)
	merged.StreakDays = max(merged.StreakDays, local.StreakDays)
	merged.TotalHugsSent = max(merged.TotalHugsSent, local.TotalHugsSent)
	merged.TotalHugsReceived = max(merged.TotalHugsReceived, local.TotalHugsReceived)
	merged.UnlockedContent = union(local.UnlockedContent, merged.UnlockedContent)
	merged.Titles = union(local.Titles, merged.Titles)
	if merged.BloomName == "" {
		merged.BloomName = local.BloomName
		merged.BloomBackstory = local.BloomBackstory
	}
	if len(merged.RecentActivities) == 0 {
		merged.RecentActivities = local.RecentActivities
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = local.CreatedAt
	}
	enforceProgress(merged, local)
	m.user = merged
	m.persistLocked(ctx)
	out := m.user.Clone()
	m.mu.Unlock()

	m.notify(out)
	return true
}
