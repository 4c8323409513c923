package repositories

import (
	"context"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/uptrace/bun"
)

// Challenges and rewards are read-only inputs to the dashboard and
// rewards pages; nothing in this service mutates them.

type ChallengeRepository interface {
	GetActive(ctx context.Context) ([]*models.Challenge, error)
}

type challengeRepository struct {
	db *bun.DB
}

func NewChallengeRepository(db *bun.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) GetActive(ctx context.Context) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := r.db.NewSelect().
		Model(&challenges).
		Where("active = ?", true).
		Order("points ASC").
		Scan(ctx)
	return challenges, err
}

type RewardRepository interface {
	GetActive(ctx context.Context) ([]*models.Reward, error)
}

type rewardRepository struct {
	db *bun.DB
}

func NewRewardRepository(db *bun.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) GetActive(ctx context.Context) ([]*models.Reward, error) {
	var rewards []*models.Reward
	err := r.db.NewSelect().
		Model(&rewards).
		Where("active = ?", true).
		Order("points_required ASC").
		Scan(ctx)
	return rewards, err
}
