package staking

import (
	"sync"
	"time"
)

// Staking terms. Fixed for every position this engine version creates.
const (
	LockDays        = 30
	BonusMultiplier = 1.5

	baseAnnualRate = 0.05
	dayMillis      = 24 * 60 * 60 * 1000

	// Baseline capital used to express total staked value as a liquidity
	// increase percentage.
	baselineCapital = 1_000_000
)

// PositionStatus tracks the lifecycle of a stake. Positions only ever move
// from active to closed; a closed position leaves the active set for good.
type PositionStatus string

const (
	PositionActive PositionStatus = "active"
	PositionClosed PositionStatus = "closed"
)

// Position is a time-locked deposit of previously earned reward. Principal is
// immutable after creation; EstimatedYield is the informational 30-day
// projection shown at stake time and is never what gets paid at unstake.
type Position struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Principal       int64          `json:"principal"`
	LockDays        int            `json:"lock_days"`
	BonusMultiplier float64        `json:"bonus_multiplier"`
	StakedAt        time.Time      `json:"staked_at"`
	UnlockAt        time.Time      `json:"unlock_at"`
	EstimatedYield  float64        `json:"estimated_yield"`
	Status          PositionStatus `json:"status"`
}

// Book holds one user's active positions and their running principal total.
// Created lazily on first stake and never deleted; a drained book with a zero
// total stays in the store.
type Book struct {
	mu          sync.Mutex
	userID      string
	positions   []*Position
	totalStaked int64
}

func newBook(userID string) *Book {
	return &Book{userID: userID}
}

// BookView is a read-only copy of a user's book. Exists distinguishes a user
// who has staked before (even if fully drained) from one who never has.
type BookView struct {
	UserID      string     `json:"user_id"`
	TotalStaked int64      `json:"total_staked"`
	Positions   []Position `json:"positions"`
	Exists      bool       `json:"exists"`
}

// snapshot copies the book under its lock.
func (b *Book) snapshot() BookView {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]Position, len(b.positions))
	for i, p := range b.positions {
		positions[i] = *p
	}
	return BookView{
		UserID:      b.userID,
		TotalStaked: b.totalStaked,
		Positions:   positions,
		Exists:      true,
	}
}
