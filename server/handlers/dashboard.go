package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/server/models"
	"github.com/greenloop/ecoscan/server/utils"
)

// GetDashboard assembles the caller's dashboard page.
func (a *App) GetDashboard(c *fiber.Ctx) error {
	userID, ok := utils.UserID(c)
	if !ok {
		return utils.SendUnauthorized(c, "A user is required")
	}

	dash, err := a.Dashboard.Load(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.SendNotFound(c, "PROFILE_NOT_FOUND", "No profile for this user")
		}
		return utils.SendInternalServerError(c, "DASHBOARD_FAILED", "Could not load the dashboard")
	}

	return utils.SendSuccess(c, models.NewDashboardResponse(dash), "")
}
