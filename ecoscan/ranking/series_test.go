package ranking

import (
	"testing"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

func scanAt(t time.Time, points int) *models.ScanEvent {
	return &models.ScanEvent{CreatedAt: t, PointsEarned: points}
}

func TestDailySeries(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	scans := []*models.ScanEvent{
		scanAt(now.Add(-1*time.Hour), 10),
		scanAt(now.Add(-2*time.Hour), 5),
		scanAt(now.AddDate(0, 0, -3), 20),
		scanAt(now.AddDate(0, 0, -6), 7),
		// Outside the window, must be ignored.
		scanAt(now.AddDate(0, 0, -7), 99),
		scanAt(now.AddDate(0, 0, 1), 99),
	}

	series := DailySeries(scans, 7, now)

	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	if !series[0].Date.Equal(today.AddDate(0, 0, -6)) {
		t.Errorf("series starts at %v, want %v", series[0].Date, today.AddDate(0, 0, -6))
	}
	if !series[6].Date.Equal(today) {
		t.Errorf("series ends at %v, want %v", series[6].Date, today)
	}

	wantPoints := []int{7, 0, 0, 20, 0, 0, 15}
	for i, want := range wantPoints {
		if series[i].Points != want {
			t.Errorf("day %d points = %d, want %d", i, series[i].Points, want)
		}
	}
}

func TestDailySeriesNoScans(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	series := DailySeries(nil, 7, now)

	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	for i, day := range series {
		if day.Points != 0 {
			t.Errorf("day %d points = %d, want 0", i, day.Points)
		}
	}
}

func TestDailySeriesDefaultsWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	series := DailySeries(nil, 0, now)
	if len(series) != DefaultWindowDays {
		t.Errorf("series length = %d, want %d", len(series), DefaultWindowDays)
	}
}
