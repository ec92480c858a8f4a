package rewards

import "github.com/AnshRaj112/innerbloom-companion/internal/models"

var catalog = map[string][]models.RewardOffer{
	models.RarityCommon: {
		{Kind: models.KindPoints, Amount: 50, Rarity: models.RarityCommon, Icon: "⭐", Message: "Daily Points Bonus!"},
		{Kind: models.KindStreak, Amount: 1, Rarity: models.RarityCommon, Icon: "🔥", Message: "Streak Bonus!"},
	},
	models.RarityUncommon: {
		{Kind: models.KindPoints, Amount: 100, Rarity: models.RarityUncommon, Icon: "✨", Message: "Bonus Points!"},
		{Kind: models.KindPoints, Amount: 250, Rarity: models.RarityUncommon, Icon: "💎", Message: "Rare Gem Bonus!"},
		{Kind: models.KindInspiration, Rarity: models.RarityUncommon, Icon: "💝", Message: "Inspiration Boost!", Content: "Your inner strength guides you through every challenge 💪"},
	},
	models.RarityRare: {
		{Kind: models.KindContentUnlock, Rarity: models.RarityRare, Icon: "👑", Message: "Exclusive Content Unlocked!", Content: "sacred-wisdom-vault"},
		{Kind: models.KindIdentityBoost, Rarity: models.RarityRare, Icon: "🌟", Message: "Identity Boost!", Title: "Radiant Bloom"},
	},
}

// Pool returns a copy of the reward set for rarity.
func Pool(rarity string) []models.RewardOffer {
	return append([]models.RewardOffer(nil), catalog[rarity]...)
}
