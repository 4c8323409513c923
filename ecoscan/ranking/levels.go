package ranking

import "math"

// Level bands match the product's published progression; the max of
// the last band is unbounded.
type Level struct {
	Name string
	Min  int64
	Max  int64
}

var levels = []Level{
	{Name: "Eco Rookie", Min: 0, Max: 500},
	{Name: "Green Explorer", Min: 500, Max: 1000},
	{Name: "Eco Guardian", Min: 1000, Max: 2000},
	{Name: "Green Champion", Min: 2000, Max: 5000},
	{Name: "Earth Hero", Min: 5000, Max: math.MaxInt64},
}

// LevelFor maps an eco score onto its level name.
func LevelFor(ecoScore int64) string {
	for _, l := range levels {
		if ecoScore >= l.Min && ecoScore < l.Max {
			return l.Name
		}
	}
	return levels[0].Name
}

// LevelProgress reports the current level, the percent progress within
// its band, and the next level's name (empty at the top band, where
// progress is pinned to 100).
func LevelProgress(ecoScore int64) (current string, progress float64, next string) {
	for i, l := range levels {
		if ecoScore < l.Min || ecoScore >= l.Max {
			continue
		}
		if i == len(levels)-1 {
			return l.Name, 100, ""
		}
		progress = float64(ecoScore-l.Min) / float64(l.Max-l.Min) * 100
		return l.Name, progress, levels[i+1].Name
	}
	return levels[0].Name, 0, levels[1].Name
}
