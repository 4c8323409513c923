package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/ranking"
)

// Sentinel errors of the credit pipeline. Handlers map these onto API
// error codes; everything else is treated as an internal failure.
var (
	// ErrLedgerWrite means the scan event could not be appended; the
	// whole credit aborts and the profile is left untouched.
	ErrLedgerWrite = errors.New("failed to append scan event")

	// ErrProfileNotFound means the authenticated user has no profile
	// row. That signals a data-consistency bug upstream, not a normal
	// condition.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrConflict is returned by stores using optimistic concurrency
	// when a concurrent credit won the race. Credit retries these a
	// bounded number of times before surfacing the failure.
	ErrConflict = errors.New("concurrent profile update conflict")
)

// maxCreditAttempts bounds optimistic-concurrency retries.
const maxCreditAttempts = 3

// ProfileStore is the slice of the profile repository the ledger
// needs. Implementations must make IncrementScore safe under
// concurrent calls for the same id: either one atomic server-side
// increment or a compare-and-swap that reports ErrConflict. A plain
// read-then-overwrite loses updates and is not acceptable.
type ProfileStore interface {
	IncrementScore(ctx context.Context, id string, points int) (*models.Profile, error)
	UpdateLevel(ctx context.Context, id string, level string, expectScore int64) error
}

// ScanStore appends to the scan event ledger.
type ScanStore interface {
	Create(ctx context.Context, scan *models.ScanEvent) error
}

// Result carries the post-credit totals back to the scan session.
type Result struct {
	PointsEarned int
	EcoScore     int64
	TotalScans   int64
	Level        string
}

type Ledger struct {
	profiles ProfileStore
	scans    ScanStore
}

func New(profiles ProfileStore, scans ScanStore) *Ledger {
	return &Ledger{profiles: profiles, scans: scans}
}

// PointsFor derives the reward for a product: half its overall score,
// rounded down.
func PointsFor(product *models.Product) int {
	return product.OverallScore / 2
}

// Credit applies exactly one resolved scan to a user's profile.
// Real products get a durable scan event first; synthetic (demo)
// products only move the profile totals. The profile update never
// loses concurrent increments.
func (l *Ledger) Credit(ctx context.Context, userID string, product *models.Product, synthetic bool) (*Result, error) {
	points := PointsFor(product)

	if !synthetic {
		scan := &models.ScanEvent{
			ID:           uuid.NewString(),
			UserID:       userID,
			ProductID:    product.ID,
			PointsEarned: points,
			CreatedAt:    time.Now(),
		}
		if err := l.scans.Create(ctx, scan); err != nil {
			slog.Error("Scan event append failed",
				slog.String("type", "scan"),
				slog.String("user_id", userID),
				slog.String("product_id", product.ID),
				slog.Any("error", err))
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
	}

	profile, err := l.incrementWithRetry(ctx, userID, points)
	if err != nil {
		return nil, err
	}

	// Level derives from the new score; a lost race here only delays
	// the label until the next credit.
	if level := ranking.LevelFor(profile.EcoScore); level != profile.Level {
		if err := l.profiles.UpdateLevel(ctx, userID, level, profile.EcoScore); err != nil {
			slog.Warn("Level update skipped",
				slog.String("type", "scan"),
				slog.String("user_id", userID),
				slog.Any("error", err))
		} else {
			profile.Level = level
		}
	}

	slog.Info("Scan credited",
		slog.String("type", "scan"),
		slog.String("user_id", userID),
		slog.String("product_id", product.ID),
		slog.Bool("synthetic", synthetic),
		slog.Int("points", points),
		slog.Int64("eco_score", profile.EcoScore))

	return &Result{
		PointsEarned: points,
		EcoScore:     profile.EcoScore,
		TotalScans:   profile.TotalScans,
		Level:        profile.Level,
	}, nil
}

func (l *Ledger) incrementWithRetry(ctx context.Context, userID string, points int) (*models.Profile, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreditAttempts; attempt++ {
		profile, err := l.profiles.IncrementScore(ctx, userID, points)
		if err == nil {
			return profile, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", ErrProfileNotFound, userID)
		}
		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		lastErr = err
		slog.Debug("Credit conflict, retrying",
			slog.String("type", "scan"),
			slog.String("user_id", userID),
			slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("credit failed after %d attempts: %w", maxCreditAttempts, lastErr)
}
