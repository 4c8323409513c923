package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/uptrace/bun"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetAll(ctx context.Context) ([]*models.Profile, error)
	GetTop(ctx context.Context, limit int) ([]*models.Profile, error)
	GetCount(ctx context.Context) (int, error)
	IncrementScore(ctx context.Context, id string, points int) (*models.Profile, error)
	UpdateLevel(ctx context.Context, id string, level string, expectScore int64) error
}

type profileRepository struct {
	db *bun.DB
}

func NewProfileRepository(db *bun.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(profile).Exec(ctx)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile := new(models.Profile)
	err := r.db.NewSelect().
		Model(profile).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("Profile not found in database",
				slog.String("type", "db"),
				slog.String("operation", "GetByID"),
				slog.String("profile_id", id))
		}
		return nil, err
	}
	return profile, nil
}

// GetAll returns every profile in leaderboard order. Ties on eco_score
// break on earlier created_at, then id, matching ranking.SortByScore.
func (r *profileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.NewSelect().
		Model(&profiles).
		Order("eco_score DESC", "created_at ASC", "id ASC").
		Scan(ctx)
	return profiles, err
}

func (r *profileRepository) GetTop(ctx context.Context, limit int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.NewSelect().
		Model(&profiles).
		Order("eco_score DESC", "created_at ASC", "id ASC").
		Limit(limit).
		Scan(ctx)
	return profiles, err
}

func (r *profileRepository) GetCount(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Profile)(nil)).Count(ctx)
}

// IncrementScore applies one credit as a single server-side increment
// so concurrent credits for the same profile never lose updates. The
// updated row is returned; sql.ErrNoRows means the profile is missing.
func (r *profileRepository) IncrementScore(ctx context.Context, id string, points int) (*models.Profile, error) {
	profile := new(models.Profile)
	res, err := r.db.NewUpdate().
		Model(profile).
		Set("eco_score = eco_score + ?", points).
		Set("total_scans = total_scans + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

// UpdateLevel writes a recomputed level string. The expectScore guard
// skips the write when another credit has moved the score since; the
// next credit recomputes from the fresher value.
func (r *profileRepository) UpdateLevel(ctx context.Context, id string, level string, expectScore int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("level = ?", level).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND eco_score = ?", id, expectScore).
		Exec(ctx)
	return err
}
