package repositories

import (
	"context"
	"time"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/uptrace/bun"
)

type StakingStatsRepository interface {
	Create(ctx context.Context, stats *models.StakingStats) error
	GetLatest(ctx context.Context) (*models.StakingStats, error)
	GetRange(ctx context.Context, from, to time.Time) ([]*models.StakingStats, error)
}

type stakingStatsRepository struct {
	*BaseRepository
}

func NewStakingStatsRepository(db *bun.DB) StakingStatsRepository {
	return &stakingStatsRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *stakingStatsRepository) Create(ctx context.Context, stats *models.StakingStats) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if stats.Timestamp.IsZero() {
		stats.Timestamp = time.Now()
	}

	_, err := r.GetDB().NewInsert().
		Model(stats).
		Exec(ctx)
	return r.HandleError("create", "staking_stats", err)
}

func (r *stakingStatsRepository) GetLatest(ctx context.Context) (*models.StakingStats, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	stats := new(models.StakingStats)
	err := r.GetDB().NewSelect().
		Model(stats).
		Order("timestamp DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_latest", "staking_stats", err)
	}
	return stats, nil
}

func (r *stakingStatsRepository) GetRange(ctx context.Context, from, to time.Time) ([]*models.StakingStats, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var stats []*models.StakingStats
	err := r.GetDB().NewSelect().
		Model(&stats).
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_range", "staking_stats", err)
	}
	return stats, nil
}
