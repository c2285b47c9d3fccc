package repositories

import (
	"context"
	"time"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/uptrace/bun"
)

type StakeRepository interface {
	Insert(ctx context.Context, position *models.StakePosition) error
	Close(ctx context.Context, stakeID string, paidYield float64, closedAt time.Time) error
	GetByID(ctx context.Context, stakeID string) (*models.StakePosition, error)
	GetActiveByUser(ctx context.Context, userID string) ([]*models.StakePosition, error)
	GetAllActive(ctx context.Context) ([]*models.StakePosition, error)
}

type stakeRepository struct {
	*BaseRepository
}

func NewStakeRepository(db *bun.DB) StakeRepository {
	return &stakeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *stakeRepository) Insert(ctx context.Context, position *models.StakePosition) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().
		Model(position).
		Exec(ctx)
	return r.HandleErrorWithID("insert", "stake_position", position.ID, err)
}

// Close marks a position settled. The in-memory ledger is the source of truth
// for lock enforcement; this only records the outcome.
func (r *stakeRepository) Close(ctx context.Context, stakeID string, paidYield float64, closedAt time.Time) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	result, err := r.GetDB().NewUpdate().
		Model((*models.StakePosition)(nil)).
		Set("status = ?", "closed").
		Set("paid_yield = ?", paidYield).
		Set("closed_at = ?", closedAt).
		Where("id = ? AND status = 'active'", stakeID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("close", "stake_position", stakeID, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Entity: "stake_position", ID: stakeID}
	}
	return nil
}

func (r *stakeRepository) GetByID(ctx context.Context, stakeID string) (*models.StakePosition, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	position := new(models.StakePosition)
	err := r.GetDB().NewSelect().
		Model(position).
		Where("id = ?", stakeID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "stake_position", stakeID, err)
	}
	return position, nil
}

func (r *stakeRepository) GetActiveByUser(ctx context.Context, userID string) ([]*models.StakePosition, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var positions []*models.StakePosition
	err := r.GetDB().NewSelect().
		Model(&positions).
		Where("user_id = ? AND status = 'active'", userID).
		Order("staked_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_active_by_user", "stake_position", err)
	}
	return positions, nil
}

// GetAllActive loads every open position, used to warm the in-memory ledger
// at startup.
func (r *stakeRepository) GetAllActive(ctx context.Context) ([]*models.StakePosition, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var positions []*models.StakePosition
	err := r.GetDB().NewSelect().
		Model(&positions).
		Where("status = 'active'").
		Order("staked_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_all_active", "stake_position", err)
	}
	return positions, nil
}
