package economy

import (
	"log/slog"
	"sync"

	"github.com/playvault/reward-engine/rewardengine/economy/staking"
)

// Fixed monthly figures backing the informational sustainability ratio.
const (
	monthlyRevenueEstimate = 50000
	monthlyExpenseEstimate = 40000
)

// RewardOutcome is the composite result of processing one reward event: the
// exact split plus a fresh snapshot of the staking aggregates.
type RewardOutcome struct {
	Distribution
	StakingStats staking.ProtocolStats `json:"staking_stats"`
}

// EngineStatus reports the lifetime totals and the derived sustainability
// ratio. Informational only; no operation gates on it.
type EngineStatus struct {
	TotalRewardsEver    int64   `json:"total_rewards_ever"`
	UserPoolEver        int64   `json:"user_pool_ever"`
	ProtocolPoolEver    int64   `json:"protocol_pool_ever"`
	SustainabilityRatio float64 `json:"sustainability_ratio"`
}

// Coordinator composes the distributor and the stake ledger. It is the only
// outward-facing component; reward events flow through it and stake commands
// delegate straight to the ledger with errors surfaced unchanged.
type Coordinator struct {
	distributor *Distributor
	ledger      *staking.Ledger

	mu               sync.Mutex
	totalRewardsEver int64
	userPoolEver     int64
	protocolPoolEver int64
}

func NewCoordinator(ledger *staking.Ledger) *Coordinator {
	return &Coordinator{
		distributor: NewDistributor(),
		ledger:      ledger,
	}
}

// ProcessReward splits the gross amount, folds the split into the lifetime
// totals, and returns it together with fresh staking stats.
func (c *Coordinator) ProcessReward(gross int64) (RewardOutcome, error) {
	dist, err := c.distributor.Distribute(gross)
	if err != nil {
		return RewardOutcome{}, err
	}

	c.mu.Lock()
	c.totalRewardsEver += dist.Gross
	c.userPoolEver += dist.InstantClaim + dist.StakingIncentive
	c.protocolPoolEver += dist.ProtocolOperations
	c.mu.Unlock()

	slog.Debug("Reward processed",
		slog.String("type", "engine"),
		slog.Int64("gross", dist.Gross),
		slog.Int64("instant_claim", dist.InstantClaim),
		slog.Int64("staking_incentive", dist.StakingIncentive),
		slog.Int64("protocol_operations", dist.ProtocolOperations))

	return RewardOutcome{
		Distribution: dist,
		StakingStats: c.ledger.ProtocolStats(),
	}, nil
}

// Stake delegates to the ledger.
func (c *Coordinator) Stake(userID string, amount int64) (staking.Position, error) {
	return c.ledger.Stake(userID, amount)
}

// Unstake delegates to the ledger.
func (c *Coordinator) Unstake(userID, stakeID string) (staking.Payout, error) {
	return c.ledger.Unstake(userID, stakeID)
}

// GetBook delegates to the ledger.
func (c *Coordinator) GetBook(userID string) staking.BookView {
	return c.ledger.GetBook(userID)
}

// StakingStats delegates to the ledger.
func (c *Coordinator) StakingStats() staking.ProtocolStats {
	return c.ledger.ProtocolStats()
}

// Status returns the lifetime totals plus the sustainability ratio.
func (c *Coordinator) Status() EngineStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return EngineStatus{
		TotalRewardsEver:    c.totalRewardsEver,
		UserPoolEver:        c.userPoolEver,
		ProtocolPoolEver:    c.protocolPoolEver,
		SustainabilityRatio: float64(monthlyRevenueEstimate) / float64(monthlyExpenseEstimate),
	}
}
