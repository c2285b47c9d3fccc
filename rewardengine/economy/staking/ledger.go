package staking

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Payout is the settlement of one unstaked position. Principal comes back
// whole; the yield rides on top and was never part of the staked totals.
type Payout struct {
	StakeID   string  `json:"stake_id"`
	Principal int64   `json:"principal"`
	Yield     float64 `json:"yield"`
	Total     float64 `json:"total"`
}

// ProtocolStats is the on-demand aggregate over every book in the store. It
// is recomputed live on each call and never cached.
type ProtocolStats struct {
	TotalStaked          int64   `json:"total_staked"`
	RewardsPaid          float64 `json:"rewards_paid"`
	UserCount            int     `json:"user_count"`
	StakeCount           int     `json:"stake_count"`
	AverageStake         float64 `json:"average_stake"`
	LiquidityIncreasePct float64 `json:"liquidity_increase_pct"`
}

// Ledger owns the stake position lifecycle. Mutations for one user are
// serialized by that user's book lock; the global counters are updated under
// their own lock scoped to the mutation. Stats reads range over live books
// and may observe concurrent mutations of other users, which is acceptable
// for an advisory aggregate.
type Ledger struct {
	store BookStore
	clock Clock
	newID func() string

	counters struct {
		mu          sync.Mutex
		totalStaked int64
		rewardsPaid float64
	}
}

func NewLedger(store BookStore, clock Clock) *Ledger {
	return &Ledger{
		store: store,
		clock: clock,
		newID: func() string {
			return "stake_" + uuid.NewString()
		},
	}
}

// Stake opens a new 30-day position for the user. A non-positive principal is
// rejected before any book is touched.
func (l *Ledger) Stake(userID string, principal int64) (Position, error) {
	if principal <= 0 {
		return Position{}, ErrInvalidAmount
	}

	now := l.clock.Now()
	position := &Position{
		ID:              l.newID(),
		UserID:          userID,
		Principal:       principal,
		LockDays:        LockDays,
		BonusMultiplier: BonusMultiplier,
		StakedAt:        now,
		UnlockAt:        now.Add(LockDays * 24 * time.Hour),
		EstimatedYield:  estimateYield(principal),
		Status:          PositionActive,
	}

	book := l.store.GetOrCreate(userID)
	book.mu.Lock()
	book.positions = append(book.positions, position)
	book.totalStaked += principal
	book.mu.Unlock()

	l.counters.mu.Lock()
	l.counters.totalStaked += principal
	l.counters.mu.Unlock()

	slog.Debug("Stake position opened",
		slog.String("type", "engine"),
		slog.String("user_id", userID),
		slog.String("stake_id", position.ID),
		slog.Int64("principal", principal))

	return *position, nil
}

// Unstake settles a position at or after its unlock time. The typed failures
// distinguish a user who never staked, an unknown (or already closed) id, and
// a still-active lock.
func (l *Ledger) Unstake(userID, stakeID string) (Payout, error) {
	book, ok := l.store.Get(userID)
	if !ok {
		return Payout{}, ErrNoBook
	}

	now := l.clock.Now()

	book.mu.Lock()
	idx := -1
	for i, p := range book.positions {
		if p.ID == stakeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		book.mu.Unlock()
		return Payout{}, fmt.Errorf("stake %s: %w", stakeID, ErrNotFound)
	}

	position := book.positions[idx]
	if now.Before(position.UnlockAt) {
		remaining := remainingLockDays(now, position.UnlockAt)
		book.mu.Unlock()
		return Payout{}, &LockActiveError{
			StakeID:       stakeID,
			UnlockAt:      position.UnlockAt,
			RemainingDays: remaining,
		}
	}

	yield := accruedYield(position.Principal, position.BonusMultiplier, now.Sub(position.StakedAt))

	book.positions = append(book.positions[:idx], book.positions[idx+1:]...)
	book.totalStaked -= position.Principal
	book.mu.Unlock()

	position.Status = PositionClosed

	l.counters.mu.Lock()
	l.counters.totalStaked -= position.Principal
	l.counters.rewardsPaid += yield
	l.counters.mu.Unlock()

	slog.Debug("Stake position closed",
		slog.String("type", "engine"),
		slog.String("user_id", userID),
		slog.String("stake_id", stakeID),
		slog.Int64("principal", position.Principal),
		slog.Float64("yield", yield))

	return Payout{
		StakeID:   stakeID,
		Principal: position.Principal,
		Yield:     yield,
		Total:     float64(position.Principal) + yield,
	}, nil
}

// GetBook returns a copy of the user's book. A user who never staked gets an
// empty view rather than an error; Exists stays false for them.
func (l *Ledger) GetBook(userID string) BookView {
	book, ok := l.store.Get(userID)
	if !ok {
		return BookView{UserID: userID, Positions: []Position{}}
	}
	return book.snapshot()
}

// ProtocolStats aggregates live over all books. The reductions are
// order-independent sums and counts, so the unspecified iteration order of
// the store does not matter.
func (l *Ledger) ProtocolStats() ProtocolStats {
	var totalStaked int64
	var stakeCount int
	userCount := l.store.Len()

	l.store.Range(func(_ string, book *Book) bool {
		book.mu.Lock()
		totalStaked += book.totalStaked
		stakeCount += len(book.positions)
		book.mu.Unlock()
		return true
	})

	l.counters.mu.Lock()
	rewardsPaid := l.counters.rewardsPaid
	l.counters.mu.Unlock()

	var averageStake float64
	if stakeCount > 0 {
		averageStake = float64(totalStaked) / float64(stakeCount)
	}

	return ProtocolStats{
		TotalStaked:          totalStaked,
		RewardsPaid:          rewardsPaid,
		UserCount:            userCount,
		StakeCount:           stakeCount,
		AverageStake:         averageStake,
		LiquidityIncreasePct: float64(totalStaked) / baselineCapital * 100,
	}
}

// TotalStaked reads the running global principal total without touching the
// books.
func (l *Ledger) TotalStaked() int64 {
	l.counters.mu.Lock()
	defer l.counters.mu.Unlock()
	return l.counters.totalStaked
}

// RewardsPaid reads the cumulative yield paid out on unstaking.
func (l *Ledger) RewardsPaid() float64 {
	l.counters.mu.Lock()
	defer l.counters.mu.Unlock()
	return l.counters.rewardsPaid
}

// Books snapshots every book in the store, for exports and diagnostics.
func (l *Ledger) Books() []BookView {
	views := make([]BookView, 0, l.store.Len())
	l.store.Range(func(_ string, book *Book) bool {
		views = append(views, book.snapshot())
		return true
	})
	return views
}

// Restore loads previously persisted active positions back into the ledger,
// keeping their original ids and timestamps. Used to warm the in-memory store
// from the database at startup.
func (l *Ledger) Restore(positions []Position) {
	for i := range positions {
		p := positions[i]
		p.Status = PositionActive

		book := l.store.GetOrCreate(p.UserID)
		book.mu.Lock()
		book.positions = append(book.positions, &p)
		book.totalStaked += p.Principal
		book.mu.Unlock()

		l.counters.mu.Lock()
		l.counters.totalStaked += p.Principal
		l.counters.mu.Unlock()
	}
}

// accruedYield compounds the bonus-adjusted daily rate over the true elapsed
// duration, fractional days included. It never goes negative.
func accruedYield(principal int64, multiplier float64, elapsed time.Duration) float64 {
	days := float64(elapsed.Milliseconds()) / dayMillis
	effectiveDaily := baseAnnualRate / 365 * multiplier
	yield := float64(principal) * (math.Pow(1+effectiveDaily, days) - 1)
	if yield < 0 {
		return 0
	}
	return yield
}

// estimateYield is the 30-day projection shown at stake time. Informational
// only; settlement always recomputes from real elapsed time.
func estimateYield(principal int64) float64 {
	return accruedYield(principal, BonusMultiplier, LockDays*24*time.Hour)
}

// remainingLockDays rounds the remaining lock time up to whole days.
func remainingLockDays(now, unlockAt time.Time) int64 {
	remainingMillis := unlockAt.Sub(now).Milliseconds()
	return (remainingMillis + dayMillis - 1) / dayMillis
}
