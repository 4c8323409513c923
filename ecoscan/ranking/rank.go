package ranking

import (
	"sort"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

// Rank computes a profile's 1-based leaderboard position within the
// given snapshot. It returns 0 when the user is absent (the HTTP layer
// serializes that as null). The snapshot is never mutated.
func Rank(profiles []*models.Profile, userID string) (rank int, total int) {
	sorted := SortByScore(profiles)
	for i, p := range sorted {
		if p.ID == userID {
			return i + 1, len(sorted)
		}
	}
	return 0, len(sorted)
}

// SortByScore returns a new slice ordered by eco_score descending.
// Ties break on earlier created_at, then id ascending, so rank stays
// deterministic across calls.
func SortByScore(profiles []*models.Profile) []*models.Profile {
	sorted := make([]*models.Profile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.EcoScore != b.EcoScore {
			return a.EcoScore > b.EcoScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sorted
}
