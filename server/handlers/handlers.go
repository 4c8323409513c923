package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/ecoscan/database"
	"github.com/greenloop/ecoscan/ecoscan/database/repositories"
	"github.com/greenloop/ecoscan/ecoscan/scanner"
	"github.com/greenloop/ecoscan/ecoscan/services"
	"github.com/greenloop/ecoscan/server/middleware"
)

// App bundles the handler dependencies.
type App struct {
	DB         *database.DB
	Profiles   repositories.ProfileRepository
	Scans      repositories.ScanRepository
	Products   repositories.ProductRepository
	Challenges repositories.ChallengeRepository
	Rewards    repositories.RewardRepository
	Catalog    *services.CatalogService
	Dashboard  *services.DashboardService
	Scanner    *scanner.Manager
	Spaces     *services.SpacesService // nil when image storage is unconfigured
	Version    string
}

// RegisterRoutes attaches all API routes.
func (a *App) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api", middleware.ExtractUser())

	api.Get("/health", a.Health)

	products := api.Group("/products")
	products.Get("/", a.ListProducts)
	products.Get("/search", a.SearchProducts)
	products.Get("/barcode/:barcode", a.GetProductByBarcode)
	products.Post("/:id/image", middleware.RequireUser(), a.UploadProductImage)

	// Polling and cancel stay outside the scan budget; only
	// credit-producing posts are capped.
	scan := api.Group("/scan", middleware.RequireUser())
	scanLimit := middleware.ScanRateLimit()
	scan.Post("/manual", scanLimit, a.ManualScan)
	scan.Post("/sessions", scanLimit, a.StartScanSession)
	scan.Get("/sessions/:id", a.GetScanSession)
	scan.Post("/sessions/:id/detect", scanLimit, a.DeliverDetection)
	scan.Post("/sessions/:id/cancel", a.CancelScanSession)

	api.Get("/leaderboard", a.Leaderboard)
	api.Get("/dashboard", middleware.RequireUser(), a.GetDashboard)
	api.Get("/challenges", a.ListChallenges)
	api.Get("/rewards", a.ListRewards)
}
