package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/ecoscan/ranking"
	"github.com/greenloop/ecoscan/server/models"
	"github.com/greenloop/ecoscan/server/utils"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
)

// Leaderboard returns the top profiles by eco score plus the caller's rank.
func (a *App) Leaderboard(c *fiber.Ctx) error {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return utils.SendBadRequest(c, "limit must be a positive integer", nil)
		}
		limit = parsed
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	top, err := a.Profiles.GetTop(c.UserContext(), limit)
	if err != nil {
		return utils.SendInternalServerError(c, "LEADERBOARD_FAILED", "Could not load the leaderboard")
	}
	total, err := a.Profiles.GetCount(c.UserContext())
	if err != nil {
		return utils.SendInternalServerError(c, "LEADERBOARD_FAILED", "Could not count users")
	}

	resp := models.LeaderboardResponse{
		Entries:    make([]models.LeaderboardEntry, 0, len(top)),
		TotalUsers: total,
	}
	for i, profile := range top {
		resp.Entries = append(resp.Entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      profile.ID,
			DisplayName: profile.DisplayName,
			Level:       profile.Level,
			EcoScore:    profile.EcoScore,
			TotalScans:  profile.TotalScans,
		})
	}

	if userID, ok := utils.UserID(c); ok {
		// Rank walks every profile so users outside the page still get placed.
		all, err := a.Profiles.GetAll(c.UserContext())
		if err != nil {
			return utils.SendInternalServerError(c, "LEADERBOARD_FAILED", "Could not rank the caller")
		}
		rank, _ := ranking.Rank(all, userID)
		resp.CurrentUserRank = models.RankPointer(rank)
	}

	return utils.SendSuccess(c, resp, "")
}
