package models

import "strings"

// RewardKind is what claiming a reward does to the user.
type RewardKind string

const (
	KindPoints        RewardKind = "points"
	KindStreak        RewardKind = "streak"
	KindContentUnlock RewardKind = "content-unlock"
	KindInspiration   RewardKind = "inspiration"
	KindIdentityBoost RewardKind = "identity-boost"
)

// Rarity tiers
const (
	RarityCommon   = "common"
	RarityUncommon = "uncommon"
	RarityRare     = "rare"
)

// RewardOffer is a claimable reward produced by the reward engine.
type RewardOffer struct {
	ID      string     `json:"id"`
	Kind    RewardKind `json:"kind"`
	Amount  int        `json:"amount,omitempty"`
	Rarity  string     `json:"rarity"`
	Icon    string     `json:"icon"`
	Message string     `json:"message"`
	Content string     `json:"content,omitempty"`
	Title   string     `json:"title,omitempty"`
	Source  string     `json:"source,omitempty"` // "daily", "random"
}

// RemoteReward is the platform's random-reward payload.
type RemoteReward struct {
	Type    string `json:"type"`
	Amount  int    `json:"amount,omitempty"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
	Badge   string `json:"badge,omitempty"`
	Access  string `json:"access,omitempty"`
	Rarity  string `json:"rarity"`
}

// Offer converts the platform payload into a RewardOffer. Platform reward
// types are folded onto the local kinds.
func (r RemoteReward) Offer() RewardOffer {
	o := RewardOffer{
		Amount:  r.Amount,
		Rarity:  strings.ToLower(r.Rarity),
		Icon:    r.Icon,
		Message: r.Message,
		Content: r.Content,
		Title:   r.Title,
	}
	switch r.Type {
	case "points":
		o.Kind = KindPoints
	case "streak":
		o.Kind = KindStreak
	case "exclusive_content":
		o.Kind = KindContentUnlock
	case "exclusive_access":
		o.Kind = KindContentUnlock
		if o.Content == "" {
			o.Content = r.Access
		}
	case "title":
		o.Kind = KindIdentityBoost
	case "special_badge":
		o.Kind = KindIdentityBoost
		if o.Title == "" {
			o.Title = r.Badge
		}
	default:
		o.Kind = KindInspiration
	}
	return o
}
