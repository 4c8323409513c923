package ranking

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int64
		want  string
	}{
		{0, "Eco Rookie"},
		{499, "Eco Rookie"},
		{500, "Green Explorer"},
		{999, "Green Explorer"},
		{1000, "Eco Guardian"},
		{1999, "Eco Guardian"},
		{2000, "Green Champion"},
		{4999, "Green Champion"},
		{5000, "Earth Hero"},
		{1_000_000, "Earth Hero"},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	tests := []struct {
		name         string
		score        int64
		wantLevel    string
		wantProgress float64
		wantNext     string
	}{
		{"band start", 0, "Eco Rookie", 0, "Green Explorer"},
		{"mid band", 250, "Eco Rookie", 50, "Green Explorer"},
		{"second band", 750, "Green Explorer", 50, "Eco Guardian"},
		{"top band pinned", 9000, "Earth Hero", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, progress, next := LevelProgress(tt.score)
			if level != tt.wantLevel || progress != tt.wantProgress || next != tt.wantNext {
				t.Errorf("LevelProgress(%d) = (%q, %v, %q), want (%q, %v, %q)",
					tt.score, level, progress, next, tt.wantLevel, tt.wantProgress, tt.wantNext)
			}
		})
	}
}
