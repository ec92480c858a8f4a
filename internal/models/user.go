package models

import (
	"time"
)

// Subscription tiers
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierVIP     = "vip"
)

// MaxLevel caps the level derived from points.
const MaxLevel = 100

// User is the authenticated account as held by the session manager and
// mirrored from the platform's user record.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	BloomName        string    `json:"bloom_name,omitempty"`
	BloomBackstory   string    `json:"bloom_backstory,omitempty"`
	SubscriptionTier string    `json:"subscription_tier"`
	Points           int       `json:"points"`
	Level            int       `json:"level"`
	StreakDays       int       `json:"streak_days"`
	TotalEarnings    float64   `json:"total_earnings"`
	CreatedAt        time.Time `json:"created_at"`

	TotalHugsSent     int `json:"total_hugs_sent"`
	TotalHugsReceived int `json:"total_hugs_received"`

	UnlockedContent  []string        `json:"unlocked_content,omitempty"`
	Titles           []string        `json:"titles,omitempty"`
	RecentActivities []PointActivity `json:"recent_activities"`
}

// UserPatch carries the fields of a shallow merge into User. Nil fields are
// left untouched.
type UserPatch struct {
	Name              *string  `json:"name,omitempty"`
	BloomName         *string  `json:"bloom_name,omitempty"`
	BloomBackstory    *string  `json:"bloom_backstory,omitempty"`
	SubscriptionTier  *string  `json:"subscription_tier,omitempty"`
	Points            *int     `json:"points,omitempty"`
	StreakDays        *int     `json:"streak_days,omitempty"`
	TotalEarnings     *float64 `json:"total_earnings,omitempty"`
	TotalHugsSent     *int     `json:"total_hugs_sent,omitempty"`
	TotalHugsReceived *int     `json:"total_hugs_received,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.BloomName != nil {
		u.BloomName = *p.BloomName
	}
	if p.BloomBackstory != nil {
		u.BloomBackstory = *p.BloomBackstory
	}
	if p.SubscriptionTier != nil {
		u.SubscriptionTier = *p.SubscriptionTier
	}
	if p.Points != nil {
		u.Points = *p.Points
	}
	if p.StreakDays != nil {
		u.StreakDays = *p.StreakDays
	}
	if p.TotalEarnings != nil {
		u.TotalEarnings = *p.TotalEarnings
	}
	if p.TotalHugsSent != nil {
		u.TotalHugsSent = *p.TotalHugsSent
	}
	if p.TotalHugsReceived != nil {
		u.TotalHugsReceived = *p.TotalHugsReceived
	}
}

// Clone returns a deep copy so callers can't alias the manager's slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.UnlockedContent = append([]string(nil), u.UnlockedContent...)
	c.Titles = append([]string(nil), u.Titles...)
	c.RecentActivities = append([]PointActivity(nil), u.RecentActivities...)
	return &c
}

// LevelForPoints maps points to a level: one level per 100 points, capped.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	level := points/100 + 1
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// HasContent reports whether the content id has already been unlocked.
func (u *User) HasContent(id string) bool {
	for _, c := range u.UnlockedContent {
		if c == id {
			return true
		}
	}
	return false
}

// HasTitle reports whether the title is already held.
func (u *User) HasTitle(title string) bool {
	for _, t := range u.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// PlatformStats are the platform-wide counters from GET /stats.
type PlatformStats struct {
	TotalUsers       int     `json:"total_users"`
	ActiveUsersToday int     `json:"active_users_today"`
	TotalEarnings    float64 `json:"total_earnings"`
	TotalReferrals   int     `json:"total_referrals"`
	CommunityPosts   int     `json:"community_posts"`
}

// Leader is a row of GET /leaderboard.
type Leader struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Points   int     `json:"points"`
	Level    int     `json:"level"`
	Earnings float64 `json:"earnings"`
	Tier     string  `json:"tier"`
}

// PointActivity is one entry of the point-award ledger.
type PointActivity struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Points      int       `json:"points" bson:"points"`
	Activity    string    `json:"activity" bson:"activity"`
	Description string    `json:"description" bson:"description"`
	Synced      bool      `json:"synced" bson:"synced"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
