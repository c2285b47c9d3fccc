package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RewardEvent journals one processed reward split. The engine never reads
// these back; they exist for audit and reporting queries.
type RewardEvent struct {
	bun.BaseModel `bun:"table:reward_events,alias:re"`

	ID                 int64     `bun:"id,pk,autoincrement"`
	UserID             string    `bun:"user_id,notnull"`
	AchievementID      string    `bun:"achievement_id"`
	Gross              int64     `bun:"gross,notnull"`
	InstantClaim       int64     `bun:"instant_claim,notnull"`
	StakingIncentive   int64     `bun:"staking_incentive,notnull"`
	ProtocolOperations int64     `bun:"protocol_operations,notnull"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
