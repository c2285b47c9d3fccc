package repositories

import (
	"context"
	"time"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/uptrace/bun"
)

type RewardEventRepository interface {
	Insert(ctx context.Context, event *models.RewardEvent) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.RewardEvent, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	TotalGross(ctx context.Context) (int64, error)
}

type rewardEventRepository struct {
	*BaseRepository
}

func NewRewardEventRepository(db *bun.DB) RewardEventRepository {
	return &rewardEventRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *rewardEventRepository) Insert(ctx context.Context, event *models.RewardEvent) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.GetDB().NewInsert().
		Model(event).
		Exec(ctx)
	return r.HandleError("insert", "reward_event", err)
}

func (r *rewardEventRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.RewardEvent, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	var events []*models.RewardEvent
	err := r.GetDB().NewSelect().
		Model(&events).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_user", "reward_event", err)
	}
	return events, nil
}

func (r *rewardEventRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.GetDB().NewSelect().
		Model((*models.RewardEvent)(nil)).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count_since", "reward_event", err)
	}
	return count, nil
}

func (r *rewardEventRepository) TotalGross(ctx context.Context) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var total int64
	err := r.GetDB().NewSelect().
		Model((*models.RewardEvent)(nil)).
		ColumnExpr("COALESCE(SUM(gross), 0)").
		Scan(ctx, &total)
	if err != nil {
		return 0, r.HandleError("total_gross", "reward_event", err)
	}
	return total, nil
}
