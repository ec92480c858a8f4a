package models

// Gamification widget payloads served under /addiction/*.

type DailyChallenge struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Points        int    `json:"points"`
	SocialMessage string `json:"social_message"`
	Urgency       string `json:"urgency"`
}

type ChallengeResponse struct {
	Challenge          DailyChallenge `json:"challenge"`
	ParticipationCount int            `json:"participation_count"`
	CompletionRate     int            `json:"completion_rate"`
}

// LimitedOffer is the platform's time-limited offer. ExpiresInMinutes is
// relative to the moment it was fetched.
type LimitedOffer struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	Multiplier       int    `json:"multiplier,omitempty"`
	ContentType      string `json:"content_type,omitempty"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	ScarcityMessage  string `json:"scarcity_message"`
	UrgencyMessage   string `json:"urgency_message"`
	SpotsRemaining   int    `json:"spots_remaining"`
	ClaimedBy        int    `json:"claimed_by"`
}

// TimedOffer is a LimitedOffer being counted down locally.
type TimedOffer struct {
	Offer            LimitedOffer `json:"offer"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Remaining        string       `json:"remaining"`
	Expired          bool         `json:"expired"`
	Claimed          bool         `json:"claimed"`
	Claimable        bool         `json:"claimable"`
}

type Milestone struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ProgressMessage  string `json:"progress_message"`
	EmotionalTrigger string `json:"emotional_trigger"`
	Icon             string `json:"icon"`
	ProgressPercent  int    `json:"progress_percent"`
}

type MilestoneResponse struct {
	Milestones       []Milestone `json:"milestones"`
	OverallProgress  int         `json:"overall_progress"`
	NextBreakthrough string      `json:"next_breakthrough"`
}

type Achievement struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	EmotionalMessage string `json:"emotional_message"`
	Points           int    `json:"points"`
	Category         string `json:"category"`
}
