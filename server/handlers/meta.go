package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/server/models"
	"github.com/greenloop/ecoscan/server/utils"
)

// Health reports process liveness and database reachability.
func (a *App) Health(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := a.DB.Ping(c.UserContext()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}
	return utils.SendSuccess(c, fiber.Map{
		"status":   status,
		"database": dbStatus,
		"version":  a.Version,
	}, "")
}

// ListChallenges returns the active challenge catalog.
func (a *App) ListChallenges(c *fiber.Ctx) error {
	challenges, err := a.Challenges.GetActive(c.UserContext())
	if err != nil {
		return utils.SendInternalServerError(c, "CATALOG_FAILED", "Could not load challenges")
	}
	views := make([]models.ChallengeView, 0, len(challenges))
	for _, ch := range challenges {
		views = append(views, models.ChallengeView{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Icon:        ch.Icon,
			Points:      ch.Points,
		})
	}
	return utils.SendSuccess(c, views, "")
}

// ListRewards returns the active reward catalog ordered by cost.
func (a *App) ListRewards(c *fiber.Ctx) error {
	rewards, err := a.Rewards.GetActive(c.UserContext())
	if err != nil {
		return utils.SendInternalServerError(c, "CATALOG_FAILED", "Could not load rewards")
	}
	views := make([]models.RewardView, 0, len(rewards))
	for _, rw := range rewards {
		views = append(views, models.RewardView{
			ID:             rw.ID,
			Name:           rw.Name,
			Description:    rw.Description,
			PointsRequired: rw.PointsRequired,
			PartnerNGO:     rw.PartnerNGO,
		})
	}
	return utils.SendSuccess(c, views, "")
}
