package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StakingStats struct {
	bun.BaseModel `bun:"table:staking_stats,alias:ss"`

	ID                   int64     `bun:"id,pk,autoincrement"`
	Timestamp            time.Time `bun:"timestamp,notnull"`
	TotalStaked          int64     `bun:"total_staked,notnull"`
	RewardsPaid          float64   `bun:"rewards_paid,notnull"`
	UserCount            int       `bun:"user_count,notnull"`
	StakeCount           int       `bun:"stake_count,notnull"`
	AverageStake         float64   `bun:"average_stake,notnull"`
	LiquidityIncreasePct float64   `bun:"liquidity_increase_pct,notnull"`
}
