package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StakePosition struct {
	bun.BaseModel `bun:"table:stake_positions,alias:sp"`

	ID              string    `bun:"id,pk"`
	UserID          string    `bun:"user_id,notnull"`
	Principal       int64     `bun:"principal,notnull"`
	LockDays        int       `bun:"lock_days,notnull"`
	BonusMultiplier float64   `bun:"bonus_multiplier,notnull"`
	StakedAt        time.Time `bun:"staked_at,notnull"`
	UnlockAt        time.Time `bun:"unlock_at,notnull"`
	Status          string    `bun:"status,notnull,default:'active'"`
	PaidYield       float64   `bun:"paid_yield"`
	ClosedAt        time.Time `bun:"closed_at,nullzero"`
}
