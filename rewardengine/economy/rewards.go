package economy

import (
	"errors"
)

// Achievement reward bounds in minor token units. Rarity is the upstream
// percentage of players holding the achievement; rarer achievements pay more.
const (
	baseAchievementReward = 10000
	minAchievementReward  = 100
	maxAchievementReward  = 10000
)

var ErrInvalidRarity = errors.New("achievement rarity must be in (0, 100]")

// AchievementReward computes the gross payout for an achievement from its
// rarity percentage, floored to minor units and clamped to the payout bounds.
func AchievementReward(rarityPercent float64) (int64, error) {
	if rarityPercent <= 0 || rarityPercent > 100 {
		return 0, ErrInvalidRarity
	}

	// Rarity is inverted: an achievement held by 1% of players pays the
	// full base, one held by everyone pays the minimum.
	gross := int64(baseAchievementReward / rarityPercent)

	if gross < minAchievementReward {
		gross = minAchievementReward
	}
	if gross > maxAchievementReward {
		gross = maxAchievementReward
	}
	return gross, nil
}
