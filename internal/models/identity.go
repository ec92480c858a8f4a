package models

// Profile payloads served under /identity/*.

// Identity tiers used by the sister profile; distinct from subscription tiers.
const (
	IdentityNovice       = "novice"
	IdentityIntermediate = "intermediate"
	IdentityAdvanced     = "advanced"
	IdentityLegendary    = "legendary"
)

type NextTier struct {
	PointsNeeded *int    `json:"points_needed"`
	NextTier     *string `json:"next_tier"`
}

type SisterProfile struct {
	SisterID             string   `json:"sister_id"`
	BloomName            string   `json:"bloom_name"`
	SacredTitle          string   `json:"sacred_title"`
	Tier                 string   `json:"tier"`
	TierDisplay          string   `json:"tier_display"`
	Points               int      `json:"points"`
	AwakeningDate        string   `json:"awakening_date"`
	TransformationLevel  int      `json:"transformation_level"`
	SacredNumber         int      `json:"sacred_number"`
	DivineElement        string   `json:"divine_element"`
	MoonPhaseJoined      string   `json:"moon_phase_joined"`
	Privileges           []string `json:"privileges"`
	NextTierRequirements NextTier `json:"next_tier_requirements"`
}

type TransformationArea struct {
	Area          string `json:"area"`
	CurrentLevel  int    `json:"current_level"`
	MaxLevel      int    `json:"max_level"`
	Description   string `json:"description"`
	RecentGrowth  string `json:"recent_growth"`
	NextMilestone string `json:"next_milestone"`
	Affirmation   string `json:"affirmation"`
}

type Transformation struct {
	Areas               []TransformationArea `json:"areas"`
	OverallProgress     float64              `json:"overall_progress"`
	TransformationStage string               `json:"transformation_stage"`
	NextEvolution       string               `json:"next_evolution"`
}

type ExclusiveContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Locked      bool   `json:"locked"`
}

type NextUnlock struct {
	Tier         *string `json:"tier"`
	Requirements string  `json:"requirements"`
	Benefits     string  `json:"benefits"`
}

type ExclusiveAccess struct {
	CurrentTier      string             `json:"current_tier"`
	Privileges       []string           `json:"privileges"`
	ExclusiveContent []ExclusiveContent `json:"exclusive_content"`
	NextUnlock       NextUnlock         `json:"next_unlock"`
}

type BondingActivity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Participants int    `json:"participants"`
	Time         string `json:"time"`
	EnergyLevel  string `json:"energy_level"`
	BondingPower int    `json:"bonding_power"`
}

// ChatReply is the AI companion's answer from POST /ai/chat.
type ChatReply struct {
	Response    string   `json:"response"`
	MoodScore   int      `json:"mood_score"`
	Suggestions []string `json:"suggestions"`
	Timestamp   string   `json:"timestamp"`
}

// Affirmation is the payload of GET /ai/affirmation.
type Affirmation struct {
	Affirmation string `json:"affirmation"`
	Timestamp   string `json:"timestamp,omitempty"`
}
