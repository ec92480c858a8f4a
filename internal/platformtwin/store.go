package platformtwin

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/google/uuid"
)

// DemoUserID is the platform record the demo login maps to.
const DemoUserID = "demo_user"

const recentActivityLimit = 10

// Failure modes for the admin switch.
const (
	FailStatus   = "status"   // respond 500
	FailEnvelope = "envelope" // respond 200 {"success": false}
)

// Store holds all twin state in memory.
type Store struct {
	mu      sync.Mutex
	users   map[string]*models.User
	rng     *rand.Rand
	now     func() time.Time
	failing map[string]string
}

// NewStore creates a seeded store. The same seed yields the same fixtures.
func NewStore(seed int64) *Store {
	s := &Store{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
	s.Reset()
	return s
}

// Reset restores the seeded users and clears failure switches.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.users = map[string]*models.User{
		DemoUserID: {
			ID:               DemoUserID,
			Email:            "demo@innerbloom.com",
			Name:             "Demo User",
			SubscriptionTier: models.TierVIP,
			Points:           2450,
			Level:            15,
			StreakDays:       7,
			TotalEarnings:    1250,
			CreatedAt:        now.AddDate(0, -3, 0),
		},
	}
	for i, name := range sisterNames[:6] {
		points := 400 + i*350
		id := uuid.NewString()
		s.users[id] = &models.User{
			ID:               id,
			Email:            "sister" + string(rune('a'+i)) + "@innerbloom.com",
			Name:             name,
			SubscriptionTier: []string{models.TierFree, models.TierPremium, models.TierVIP}[i%3],
			Points:           points,
			Level:            models.LevelForPoints(points),
			StreakDays:       3 + i*4,
			TotalEarnings:    float64(i * 200),
			CreatedAt:        now.AddDate(0, 0, -30*(i+1)),
		}
	}
	s.failing = make(map[string]string)
}

// User returns a copy of the user, falling back to the demo record for
// unknown ids.
func (s *Store) User(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.Clone()
	}
	return s.users[DemoUserID].Clone()
}

// AddPoints credits the user and records the activity.
func (s *Store) AddPoints(userID string, points int, activity, description string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &models.User{
			ID:               userID,
			Name:             "Sister",
			SubscriptionTier: models.TierFree,
			Level:            1,
			CreatedAt:        s.now(),
		}
		s.users[userID] = u
	}
	u.Points += points
	if derived := models.LevelForPoints(u.Points); derived > u.Level {
		u.Level = derived
	}
	entry := models.PointActivity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Points:      points,
		Activity:    activity,
		Description: description,
		Synced:      true,
		CreatedAt:   s.now(),
	}
	u.RecentActivities = append([]models.PointActivity{entry}, u.RecentActivities...)
	if len(u.RecentActivities) > recentActivityLimit {
		u.RecentActivities = u.RecentActivities[:recentActivityLimit]
	}
	return u.Clone()
}

// SetUser replaces a user record. Tests use it to simulate remote drift.
func (s *Store) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u.Clone()
}

// Leaderboard ranks users by points descending.
func (s *Store) Leaderboard(limit int) []models.Leader {
	s.mu.Lock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].ID < users[j].ID
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	leaders := make([]models.Leader, len(users))
	for i, u := range users {
		leaders[i] = models.Leader{
			Rank:     i + 1,
			Name:     u.Name,
			Points:   u.Points,
			Level:    u.Level,
			Earnings: u.TotalEarnings,
			Tier:     u.SubscriptionTier,
		}
	}
	return leaders
}

// Stats aggregates the platform counters.
func (s *Store) Stats() models.PlatformStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.PlatformStats
	for _, u := range s.users {
		stats.TotalUsers++
		stats.TotalEarnings += u.TotalEarnings
		if len(u.RecentActivities) > 0 {
			stats.ActiveUsersToday++
		}
	}
	stats.TotalReferrals = stats.TotalUsers * 2
	stats.CommunityPosts = stats.TotalUsers * 5
	return stats
}

// Intn draws from the store's seeded source.
func (s *Store) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Between draws uniformly from [lo, hi].
func (s *Store) Between(lo, hi int) int {
	return lo + s.Intn(hi-lo+1)
}

// Float64 draws a uniform value in [0, 1).
func (s *Store) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Now returns the twin's notion of the current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Fail switches path into failure mode. An empty mode clears it.
func (s *Store) Fail(path, mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == "" {
		delete(s.failing, path)
		return
	}
	s.failing[path] = mode
}

// Failure returns the failure mode for path, if any.
func (s *Store) Failure(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode, ok := s.failing[path]
	return mode, ok
}
