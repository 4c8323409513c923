package ranking

import (
	"testing"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

func profile(id string, score int64, createdAt time.Time) *models.Profile {
	return &models.Profile{ID: id, EcoScore: score, CreatedAt: createdAt}
}

func TestRank(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	profiles := []*models.Profile{
		profile("carol", 300, base),
		profile("alice", 900, base),
		profile("bob", 600, base),
	}

	tests := []struct {
		name      string
		userID    string
		wantRank  int
		wantTotal int
	}{
		{"top scorer", "alice", 1, 3},
		{"middle", "bob", 2, 3},
		{"last", "carol", 3, 3},
		{"absent user", "dave", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, total := Rank(profiles, tt.userID)
			if rank != tt.wantRank || total != tt.wantTotal {
				t.Errorf("Rank(%q) = (%d, %d), want (%d, %d)",
					tt.userID, rank, total, tt.wantRank, tt.wantTotal)
			}
		})
	}
}

func TestRankEmptySnapshot(t *testing.T) {
	rank, total := Rank(nil, "alice")
	if rank != 0 || total != 0 {
		t.Errorf("Rank on empty snapshot = (%d, %d), want (0, 0)", rank, total)
	}
}

func TestSortByScoreTieBreaks(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	profiles := []*models.Profile{
		profile("zed", 500, late),
		profile("ann", 500, late),
		profile("old", 500, early),
		profile("top", 800, late),
	}

	sorted := SortByScore(profiles)

	wantOrder := []string{"top", "old", "ann", "zed"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Fatalf("position %d = %q, want %q", i, sorted[i].ID, want)
		}
	}

	// Input order must survive sorting.
	if profiles[0].ID != "zed" {
		t.Errorf("input slice was mutated, first element = %q", profiles[0].ID)
	}
}

func TestSortByScoreDeterministic(t *testing.T) {
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	profiles := []*models.Profile{
		profile("b", 100, now),
		profile("a", 100, now),
		profile("c", 100, now),
	}

	first := SortByScore(profiles)
	second := SortByScore(profiles)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order changed between calls at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
