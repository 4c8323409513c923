package repositories

import (
	"context"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/uptrace/bun"
)

type ScanRepository interface {
	Create(ctx context.Context, scan *models.ScanEvent) error
	GetRecentByUser(ctx context.Context, userID string, limit int) ([]*models.ScanEvent, error)
	GetByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.ScanEvent, error)
	GetCountByUser(ctx context.Context, userID string) (int, error)
}

type scanRepository struct {
	db *bun.DB
}

func NewScanRepository(db *bun.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *models.ScanEvent) error {
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(scan).Exec(ctx)
	return err
}

func (r *scanRepository) GetRecentByUser(ctx context.Context, userID string, limit int) ([]*models.ScanEvent, error) {
	var scans []*models.ScanEvent
	err := r.db.NewSelect().
		Model(&scans).
		Relation("Product").
		Where("s.user_id = ?", userID).
		Order("s.created_at DESC").
		Limit(limit).
		Scan(ctx)
	return scans, err
}

func (r *scanRepository) GetByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.ScanEvent, error) {
	var scans []*models.ScanEvent
	err := r.db.NewSelect().
		Model(&scans).
		Relation("Product").
		Where("s.user_id = ?", userID).
		Where("s.created_at >= ?", since).
		Order("s.created_at ASC").
		Scan(ctx)
	return scans, err
}

func (r *scanRepository) GetCountByUser(ctx context.Context, userID string) (int, error) {
	return r.db.NewSelect().
		Model((*models.ScanEvent)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}
