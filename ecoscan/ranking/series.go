package ranking

import (
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

// DefaultWindowDays is the trailing window shown on the dashboard.
const DefaultWindowDays = 7

// DayPoints is one calendar day of summed points.
type DayPoints struct {
	Date   time.Time `json:"date"`
	Points int       `json:"points"`
}

// DailySeries sums points_earned per calendar day over the trailing
// window ending at now, oldest first. Days without scans appear with
// zero points, so the result always has windowDays entries. Scans
// outside the window are ignored.
func DailySeries(scans []*models.ScanEvent, windowDays int, now time.Time) []DayPoints {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	today := truncateToDay(now)
	start := today.AddDate(0, 0, -(windowDays - 1))

	byDay := make(map[time.Time]int, windowDays)
	for _, scan := range scans {
		day := truncateToDay(scan.CreatedAt.In(now.Location()))
		if day.Before(start) || day.After(today) {
			continue
		}
		byDay[day] += scan.PointsEarned
	}

	series := make([]DayPoints, 0, windowDays)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		series = append(series, DayPoints{Date: day, Points: byDay[day]})
	}
	return series
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
