package ranking

import "github.com/greenloop/ecoscan/ecoscan/database/models"

// Score-tier cutoffs for the dashboard distribution chart.
const (
	HighScoreMin   = 70
	MediumScoreMin = 40
)

// Buckets sums points_earned per product score tier.
type Buckets struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Distribution buckets the given scans by their product's overall
// score: high ≥70, medium 40–69, low <40. Scans without a joined
// product are skipped.
func Distribution(scans []*models.ScanEvent) Buckets {
	var b Buckets
	for _, scan := range scans {
		if scan.Product == nil {
			continue
		}
		switch {
		case scan.Product.OverallScore >= HighScoreMin:
			b.High += scan.PointsEarned
		case scan.Product.OverallScore >= MediumScoreMin:
			b.Medium += scan.PointsEarned
		default:
			b.Low += scan.PointsEarned
		}
	}
	return b
}
