package session

import (
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
	"github.com/google/uuid"
)

func demoUser(email string, now time.Time) *models.User {
	return &models.User{
		ID:               DemoUserID,
		Email:            utils.NormalizeEmail(email),
		Name:             utils.DisplayNameFromEmail(email),
		BloomName:        "The Anointed Dawn",
		BloomBackstory:   "You were called to this journey of divine awakening and prosperity.",
		SubscriptionTier: models.TierVIP,
		Points:           2450,
		Level:            15,
		StreakDays:       7,
		TotalEarnings:    1250,
		CreatedAt:        now,
		RecentActivities: []models.PointActivity{},
	}
}

func newActivityID() string {
	return uuid.NewString()
}

// enforceProgress keeps points and level from going backwards relative to
// prev and lifts level to what the points earn.
func enforceProgress(u, prev *models.User) {
	if u.Points < prev.Points {
		u.Points = prev.Points
	}
	if u.Level < prev.Level {
		u.Level = prev.Level
	}
	if derived := models.LevelForPoints(u.Points); u.Level < derived {
		u.Level = derived
	}
}

func prependActivity(list []models.PointActivity, a models.PointActivity) []models.PointActivity {
	out := make([]models.PointActivity, 0, min(len(list)+1, recentActivityLimit))
	out = append(out, a)
	for _, e := range list {
		if len(out) == recentActivityLimit {
			break
		}
		out = append(out, e)
	}
	return out
}

func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
