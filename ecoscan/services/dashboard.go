package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/database/repositories"
	"github.com/greenloop/ecoscan/ecoscan/ranking"
)

const recentScanLimit = 5

// Dashboard is everything the dashboard page needs in one load.
type Dashboard struct {
	Profile       *models.Profile
	Rank          int
	TotalUsers    int
	Level         string
	LevelProgress float64
	NextLevel     string
	Distribution  ranking.Buckets
	Daily         []ranking.DayPoints
	RecentScans   []*models.ScanEvent
}

type DashboardService struct {
	profiles repositories.ProfileRepository
	scans    repositories.ScanRepository
}

func NewDashboardService(profiles repositories.ProfileRepository, scans repositories.ScanRepository) *DashboardService {
	return &DashboardService{profiles: profiles, scans: scans}
}

// Load aggregates the dashboard from independent queries run
// concurrently. Rank and the score stats come from snapshots, so a
// credit landing mid-load can be off by one refresh; that staleness is
// accepted.
func (s *DashboardService) Load(ctx context.Context, userID string) (*Dashboard, error) {
	now := time.Now()
	dash := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.profiles.GetByID(gctx, userID)
		if err != nil {
			return err
		}
		dash.Profile = profile
		return nil
	})

	g.Go(func() error {
		all, err := s.profiles.GetAll(gctx)
		if err != nil {
			return err
		}
		dash.Rank, dash.TotalUsers = ranking.Rank(all, userID)
		return nil
	})

	g.Go(func() error {
		recent, err := s.scans.GetRecentByUser(gctx, userID, recentScanLimit)
		if err != nil {
			return err
		}
		dash.RecentScans = recent
		return nil
	})

	g.Go(func() error {
		since := now.AddDate(0, 0, -ranking.DefaultWindowDays)
		week, err := s.scans.GetByUserSince(gctx, userID, since)
		if err != nil {
			return err
		}
		dash.Distribution = ranking.Distribution(week)
		dash.Daily = ranking.DailySeries(week, ranking.DefaultWindowDays, now)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash.Level, dash.LevelProgress, dash.NextLevel = ranking.LevelProgress(dash.Profile.EcoScore)
	return dash, nil
}
