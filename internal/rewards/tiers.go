// Package rewards implements reward selection, the daily reward gate, the
// random reward scheduler and limited-offer countdowns.
package rewards

import "github.com/AnshRaj112/innerbloom-companion/internal/models"

// Tier is one row of the rarity table. A draw belongs to the first tier whose
// Upper bound exceeds it.
type Tier struct {
	Upper  float64
	Rarity string
}

// Tiers partitions [0, 1) into half-open intervals:
// [0, 0.70) common, [0.70, 0.90) uncommon, [0.90, 1.0) rare.
var Tiers = []Tier{
	{Upper: 0.70, Rarity: models.RarityCommon},
	{Upper: 0.90, Rarity: models.RarityUncommon},
	{Upper: 1.00, Rarity: models.RarityRare},
}

// TierFor maps a uniform draw in [0, 1) to a rarity. Draws outside the range
// are clamped to the nearest tier.
func TierFor(draw float64) string {
	for _, t := range Tiers {
		if draw < t.Upper {
			return t.Rarity
		}
	}
	return Tiers[len(Tiers)-1].Rarity
}

// Select is the pure selection policy shared by the daily and random flows:
// draw picks the tier, pick(n) picks an index in [0, n) within it. The
// returned offer has no ID; callers assign one.
func Select(draw float64, pick func(n int) int) models.RewardOffer {
	pool := Pool(TierFor(draw))
	i := pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = ((i % len(pool)) + len(pool)) % len(pool)
	}
	return pool[i]
}
