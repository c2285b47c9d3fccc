package economy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/playvault/reward-engine/rewardengine/economy/staking"
	"github.com/playvault/reward-engine/rewardengine/logger"
)

// StatsRecorder persists periodic staking snapshots.
type StatsRecorder interface {
	Create(ctx context.Context, stats *models.StakingStats) error
}

// StakingMonitor samples the live staking aggregates on an interval and
// records them for trend queries. It never mutates the ledger.
type StakingMonitor struct {
	ledger    *staking.Ledger
	statsRepo StatsRecorder

	checkInterval time.Duration
	mutex         sync.Mutex
}

func NewStakingMonitor(ledger *staking.Ledger, statsRepo StatsRecorder) *StakingMonitor {
	return &StakingMonitor{
		ledger:        ledger,
		statsRepo:     statsRepo,
		checkInterval: 15 * time.Minute,
	}
}

func (m *StakingMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.RunCycle(ctx); err != nil {
					slog.Error("Failed to run staking monitoring cycle",
						slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// RunCycle executes a single monitoring cycle and returns any error
func (m *StakingMonitor) RunCycle(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats := m.ledger.ProtocolStats()
	snapshot := &models.StakingStats{
		Timestamp:            time.Now(),
		TotalStaked:          stats.TotalStaked,
		RewardsPaid:          stats.RewardsPaid,
		UserCount:            stats.UserCount,
		StakeCount:           stats.StakeCount,
		AverageStake:         stats.AverageStake,
		LiquidityIncreasePct: stats.LiquidityIncreasePct,
	}

	if err := m.statsRepo.Create(ctx, snapshot); err != nil {
		slog.Error("Failed to store staking stats",
			"error", err)
		return err
	}

	logger.LogEngine("Staking monitoring cycle completed",
		"total_staked", stats.TotalStaked,
		"user_count", stats.UserCount,
		"stake_count", stats.StakeCount)
	return nil
}

// CollectStats returns the live aggregates without persisting them.
func (m *StakingMonitor) CollectStats() staking.ProtocolStats {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.ledger.ProtocolStats()
}
