package models

// Social-proof payloads served under /social/*.

type Activity struct {
	ID                  string  `json:"id"`
	SisterName          string  `json:"sister_name"`
	Action              string  `json:"action"`
	Timestamp           string  `json:"timestamp"`
	PointsEarned        int     `json:"points_earned"`
	Location            string  `json:"location"`
	AchievementUnlocked *string `json:"achievement_unlocked"`
}

type LiveActivityFeed struct {
	Activities                []Activity `json:"activities"`
	TotalActiveNow            int        `json:"total_active_now"`
	TotalTransformationsToday int        `json:"total_transformations_today"`
}

type Testimonial struct {
	ID                 string `json:"id"`
	SisterName         string `json:"sister_name"`
	Story              string `json:"story"`
	TransformationArea string `json:"transformation_area"`
	TimeToResult       string `json:"time_to_result"`
	BeforeRating       int    `json:"before_rating"`
	AfterRating        int    `json:"after_rating"`
	Verified           bool   `json:"verified"`
	Featured           bool   `json:"featured"`
}

type UrgencyMetrics struct {
	SistersJoinedToday        int    `json:"sisters_joined_today"`
	SistersJoinedThisHour     int    `json:"sisters_joined_this_hour"`
	TransformationsInProgress int    `json:"transformations_in_progress"`
	SuccessStoriesSharedToday int    `json:"success_stories_shared_today"`
	TotalCommunitySize        int    `json:"total_community_size"`
	AverageTransformationTime string `json:"average_transformation_time"`
	SuccessRate               string `json:"success_rate"`
	SpotsRemainingVIP         int    `json:"spots_remaining_vip"`
	LimitedOfferExpiresIn     int    `json:"limited_offer_expires_in"`
	SistersOnlineNow          int    `json:"sisters_online_now"`
	CurrentEnergyLevel        int    `json:"current_energy_level"`
	ManifestationsToday       int    `json:"manifestations_today"`
}

type ScarcityAlert struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	UrgencyLevel   string `json:"urgency_level"`
	ExpiresInHours int    `json:"expires_in_hours"`
	ClaimedCount   int    `json:"claimed_count"`
	TotalSpots     int    `json:"total_spots"`
}

type CommunityEnergy struct {
	CurrentEnergy            int      `json:"current_energy"`
	EnergyTrend              string   `json:"energy_trend"`
	PeakHours                []string `json:"peak_hours"`
	MostActiveRegions        []string `json:"most_active_regions"`
	CollectiveManifestations int      `json:"collective_manifestations"`
	GroupChallengesActive    int      `json:"group_challenges_active"`
	SistersMeditatingNow     int      `json:"sisters_meditating_now"`
	PositiveVibesSent        int      `json:"positive_vibes_sent"`
	TransformationMomentum   int      `json:"transformation_momentum"`
	NextEnergyBoost          string   `json:"next_energy_boost"`
}

type RankedSister struct {
	Rank                int     `json:"rank"`
	SisterName          string  `json:"sister_name"`
	Points              int     `json:"points"`
	Level               int     `json:"level"`
	Streak              int     `json:"streak"`
	TransformationScore int     `json:"transformation_score"`
	IsCurrentUser       bool    `json:"is_current_user"`
	Tier                string  `json:"tier"`
	RecentAchievement   *string `json:"recent_achievement"`
}
