package platformtwin

import "github.com/AnshRaj112/innerbloom-companion/internal/models"

var sisterNames = []string{
	"Divine Rose", "Sacred Luna", "Golden Goddess", "Radiant Star", "Mystic Dawn",
	"Celestial Grace", "Bloom Queen", "Sacred Fire", "Divine Light", "Eternal Bloom",
	"Goddess Aria", "Sacred Willow", "Divine Phoenix", "Radiant Moon", "Golden Spirit",
}

var activityActions = []string{
	"completed the Sacred Morning Ritual",
	"shared a transformation story",
	"earned the Golden Goddess badge",
	"joined the VIP Sister Circle",
	"manifested a major breakthrough",
	"completed the 7-day challenge",
	"unlocked exclusive content",
	"reached Level 5 transformation",
	"sent healing energy to the community",
	"celebrated a major milestone",
}

var locations = []string{"New York", "Los Angeles", "Chicago", "Miami", "Seattle", "Austin", "Denver"}

var successStories = []string{
	"I manifested my dream job within 30 days of joining Inner Bloom! 💫",
	"Found my confidence again. This community changed my life! 🌟",
	"Started my own business and doubled my income. 💎",
	"Healed my relationship with my mother after years of pain. 🙏",
	"Left a toxic relationship and found inner peace. 🦋",
}

var transformationAreas = []string{"Financial", "Relationships", "Health", "Career", "Spiritual", "Self-Love"}

var affirmations = []string{
	"You are worthy of every blessing coming your way. 🌸",
	"Your light makes the world brighter today. ✨",
	"You are exactly where you need to be. 💫",
	"Your strength is quiet and unstoppable. 🌿",
	"Today you choose growth over comfort. 🌟",
}

// remoteRewards is the platform's four-tier random pool.
var remoteRewards = map[string][]models.RemoteReward{
	"common": {
		{Type: "points", Amount: 25, Icon: "⭐", Message: "Daily Shine!"},
		{Type: "points", Amount: 50, Icon: "✨", Message: "Sparkle Bonus!"},
		{Type: "affirmation", Icon: "💫", Message: "Divine Affirmation!", Content: "You are exactly where you need to be, sister."},
	},
	"uncommon": {
		{Type: "points", Amount: 100, Icon: "🌟", Message: "Star Power!"},
		{Type: "title", Icon: "👑", Message: "New Title Unlocked!", Title: "Rising Star"},
		{Type: "exclusive_content", Icon: "🔮", Message: "Secret Wisdom Unlocked!", Content: "The universe conspires to help those who help themselves."},
	},
	"rare": {
		{Type: "points", Amount: 250, Icon: "💎", Message: "Diamond Blessing!"},
		{Type: "title", Icon: "🦋", Message: "Transformation Complete!", Title: "Butterfly Sister"},
		{Type: "special_badge", Icon: "🏆", Message: "Divine Recognition!", Badge: "Chosen One"},
	},
	"legendary": {
		{Type: "points", Amount: 500, Icon: "🌈", Message: "Rainbow Miracle!"},
		{Type: "title", Icon: "👸", Message: "Ascension Achieved!", Title: "Inner Bloom Queen"},
		{Type: "exclusive_access", Icon: "🗝️", Message: "Sacred Chamber Unlocked!", Access: "VIP_LOUNGE"},
	},
}

// rollRarity maps a uniform draw onto the platform's 60/25/12/3 split.
func rollRarity(r float64) string {
	switch {
	case r < 0.60:
		return "common"
	case r < 0.85:
		return "uncommon"
	case r < 0.97:
		return "rare"
	default:
		return "legendary"
	}
}

var achievements = []models.Achievement{
	{ID: "first_bloom", Name: "First Bloom", Description: "You took the first step into your transformation", Icon: "🌱", EmotionalMessage: "Every mighty oak was once a tiny acorn.", Points: 50, Category: "journey"},
	{ID: "daily_warrior", Name: "Daily Warrior", Description: "Maintained a 7-day streak", Icon: "⚔️", EmotionalMessage: "Your consistency is your superpower.", Points: 150, Category: "consistency"},
	{ID: "point_collector", Name: "Point Collector", Description: "Earned 500 points", Icon: "💎", EmotionalMessage: "Each point is a moment you chose growth.", Points: 100, Category: "progress"},
	{ID: "sister_supporter", Name: "Sister Supporter", Description: "Helped 5 sisters in the community", Icon: "🤝", EmotionalMessage: "Your light helps others find their way.", Points: 200, Category: "community"},
	{ID: "transformation_queen", Name: "Transformation Queen", Description: "Completed your first major milestone", Icon: "👑", EmotionalMessage: "You have emerged as royalty.", Points: 300, Category: "transformation"},
}

var challenges = []models.DailyChallenge{
	{ID: "morning_affirmation", Title: "Morning Goddess Ritual", Description: "Start your day with 3 powerful affirmations", Icon: "🌅", Points: 75, SocialMessage: "847 sisters have already completed this challenge today.", Urgency: "Only 6 hours left to complete today's challenge!"},
	{ID: "gratitude_share", Title: "Gratitude Overflow", Description: "Share 3 things you're grateful for with the community", Icon: "🙏", Points: 100, SocialMessage: "Your sisters are waiting to celebrate your blessings with you.", Urgency: "Share your gratitude before midnight!"},
	{ID: "self_love_moment", Title: "Self-Love Sunday", Description: "Take a photo celebrating something you love about yourself", Icon: "💖", Points: 125, SocialMessage: "1,203 sisters have shared their self-love today.", Urgency: "Sunday special ends in 4 hours!"},
}

var limitedOffers = []models.LimitedOffer{
	{ID: "golden_hour", Title: "Golden Hour Blessing", Description: "Double points for the next 2 hours only", Icon: "⏰", Multiplier: 2, ExpiresInMinutes: 120, ScarcityMessage: "Only 47 spots remaining for this divine blessing!", UrgencyMessage: "This opportunity vanishes at sunset!"},
	{ID: "sister_circle_bonus", Title: "Sister Circle Exclusive", Description: "Unlock exclusive content for 24 hours", Icon: "🔓", ContentType: "exclusive_wisdom", ExpiresInMinutes: 1440, ScarcityMessage: "Limited to first 100 awakened sisters only!", UrgencyMessage: "Sacred knowledge disappears at midnight!"},
}

var milestones = []models.Milestone{
	{ID: "awakening", Name: "The Awakening", Description: "You've opened your eyes to your true potential", ProgressMessage: "You're 73% through your awakening journey", EmotionalTrigger: "Feel your true self emerge", Icon: "👁️", ProgressPercent: 73},
	{ID: "transformation", Name: "The Transformation", Description: "Your metamorphosis into your highest self", ProgressMessage: "You're 45% transformed", EmotionalTrigger: "Like a butterfly emerging from its cocoon", Icon: "🦋", ProgressPercent: 45},
	{ID: "empowerment", Name: "The Empowerment", Description: "Claiming your power", ProgressMessage: "You're 89% ready to claim your crown", EmotionalTrigger: "The queen within you is almost ready", Icon: "👑", ProgressPercent: 89},
}

var sacredTitles = map[string][]string{
	models.IdentityNovice:       {"Awakening Sister", "Budding Bloom", "Rising Star"},
	models.IdentityIntermediate: {"Blooming Sister", "Radiant Rose", "Golden Goddess"},
	models.IdentityAdvanced:     {"Elder Sister", "Bloom Queen", "Sacred Empress"},
	models.IdentityLegendary:    {"Inner Bloom Goddess", "Sacred Oracle", "Universal Queen"},
}

var privileges = map[string][]string{
	models.IdentityNovice:       {"Access to Daily Affirmations", "Basic Community Chat", "Weekly Wisdom Posts"},
	models.IdentityIntermediate: {"VIP Community Access", "Exclusive Sister Circles", "Priority Support", "Advanced Workshops"},
	models.IdentityAdvanced:     {"Elder Council Access", "Mentorship Opportunities", "Exclusive Retreats", "Direct Creator Access"},
	models.IdentityLegendary:    {"Sacred Inner Circle", "Platform Co-Creation Rights", "Revenue Sharing Program", "Divine Council Membership"},
}

var identityOrder = []string{models.IdentityNovice, models.IdentityIntermediate, models.IdentityAdvanced, models.IdentityLegendary}

// identityThresholds are the point floors of the tiers after novice.
var identityThresholds = []int{200, 800, 1500, 2500}

// identityTier places points into an identity tier.
func identityTier(points int) string {
	switch {
	case points < 200:
		return models.IdentityNovice
	case points < 800:
		return models.IdentityIntermediate
	case points < 1500:
		return models.IdentityAdvanced
	default:
		return models.IdentityLegendary
	}
}

func nextIdentityTier(tier string) (string, int, bool) {
	for i, t := range identityOrder {
		if t == tier && i+1 < len(identityOrder) {
			return identityOrder[i+1], identityThresholds[i], true
		}
	}
	return "", 0, false
}

var bondingActivities = []models.BondingActivity{
	{ID: "morning_circle", Name: "Sacred Morning Circle", Description: "Join sisters worldwide for morning intentions", Type: "daily_ritual", Participants: 412, Time: "6:00 AM - 8:00 AM (Your timezone)", EnergyLevel: "High", BondingPower: 85},
	{ID: "moon_ceremony", Name: "Full Moon Manifestation", Description: "Harness lunar energy with your sister circle", Type: "monthly_ritual", Participants: 980, Time: "Next full moon - 8:00 PM", EnergyLevel: "Transcendent", BondingPower: 95},
	{ID: "transformation_sharing", Name: "Transformation Tuesday", Description: "Share your weekly growth with supportive sisters", Type: "weekly_sharing", Participants: 455, Time: "Every Tuesday - 7:00 PM", EnergyLevel: "Nurturing", BondingPower: 75},
	{ID: "success_celebration", Name: "Victory Celebration Circle", Description: "Celebrate wins and support each other's success", Type: "achievement_ritual", Participants: 230, Time: "When you achieve a milestone", EnergyLevel: "Joyful", BondingPower: 90},
}

var growthAreas = []models.TransformationArea{
	{Area: "Self-Love", MaxLevel: 10, Description: "Your relationship with yourself", RecentGrowth: "+2 levels this month", NextMilestone: "Unconditional self-acceptance", Affirmation: "I am worthy of infinite love and respect"},
	{Area: "Financial Empowerment", MaxLevel: 10, Description: "Your money mindset and abundance", RecentGrowth: "+1 level this month", NextMilestone: "Multiple income streams", Affirmation: "Money flows to me easily and abundantly"},
	{Area: "Spiritual Connection", MaxLevel: 10, Description: "Your divine feminine awakening", RecentGrowth: "+3 levels this month", NextMilestone: "Daily divine communication", Affirmation: "I am connected to infinite wisdom and love"},
	{Area: "Sisterhood Bonds", MaxLevel: 10, Description: "Your connections within the community", RecentGrowth: "+1 level this month", NextMilestone: "Mentor a new sister", Affirmation: "I give and receive love freely with my sisters"},
}

// guides are the downloadable documents keyed by type.
var guides = map[string]string{
	"parenting-guide":   "Divine Motherhood Blueprint",
	"empowerment-guide": "Inner Bloom Empowerment Guide",
	"business-guide":    "She-EO Success Blueprint",
}
