package ranking

import (
	"testing"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

func scanWithScore(overallScore, points int) *models.ScanEvent {
	return &models.ScanEvent{
		PointsEarned: points,
		Product:      &models.Product{OverallScore: overallScore},
	}
}

func TestDistribution(t *testing.T) {
	tests := []struct {
		name  string
		scans []*models.ScanEvent
		want  Buckets
	}{
		{
			name: "tiers split on cutoffs",
			scans: []*models.ScanEvent{
				scanWithScore(85, 42),
				scanWithScore(70, 35),
				scanWithScore(69, 34),
				scanWithScore(40, 20),
				scanWithScore(39, 19),
				scanWithScore(0, 0),
			},
			want: Buckets{High: 77, Medium: 54, Low: 19},
		},
		{
			name:  "empty scans",
			scans: nil,
			want:  Buckets{},
		},
		{
			name: "scan without product is skipped",
			scans: []*models.ScanEvent{
				{PointsEarned: 50},
				scanWithScore(90, 45),
			},
			want: Buckets{High: 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distribution(tt.scans)
			if got != tt.want {
				t.Errorf("Distribution() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
