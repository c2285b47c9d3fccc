package economy

import (
	"errors"
	"testing"
)

func TestAchievementReward(t *testing.T) {
	tests := []struct {
		name   string
		rarity float64
		want   int64
	}{
		{"one percent pays the cap", 1, 10000},
		{"sub percent clamps to the cap", 0.1, 10000},
		{"ten percent", 10, 1000},
		{"forty percent", 40, 250},
		{"universal achievement clamps to the floor", 100, 100},
		{"near universal clamps to the floor", 99.5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AchievementReward(tt.rarity)
			if err != nil {
				t.Fatalf("AchievementReward(%v) error = %v", tt.rarity, err)
			}
			if got != tt.want {
				t.Errorf("AchievementReward(%v) = %d, want %d", tt.rarity, got, tt.want)
			}
		})
	}
}

func TestAchievementReward_InvalidRarity(t *testing.T) {
	for _, rarity := range []float64{0, -1, 100.01} {
		if _, err := AchievementReward(rarity); !errors.Is(err, ErrInvalidRarity) {
			t.Errorf("AchievementReward(%v) error = %v, want ErrInvalidRarity", rarity, err)
		}
	}
}
