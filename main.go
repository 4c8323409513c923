package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/greenloop/ecoscan/ecoscan"
	"github.com/greenloop/ecoscan/ecoscan/database"
	"github.com/greenloop/ecoscan/ecoscan/database/repositories"
	"github.com/greenloop/ecoscan/ecoscan/ledger"
	"github.com/greenloop/ecoscan/ecoscan/logger"
	"github.com/greenloop/ecoscan/ecoscan/scanner"
	"github.com/greenloop/ecoscan/ecoscan/services"
	"github.com/greenloop/ecoscan/server/handlers"
	"github.com/greenloop/ecoscan/server/middleware"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("EcoScan")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting EcoScan API",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	seed := flag.Bool("seed", true, "seed the product catalog when empty")
	flag.Parse()

	cfg, err := ecoscan.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	customHandler.SetLevel(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slog.Info("Initializing database connection...", slog.String("type", "db"))
	dbStartTime := time.Now()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to initialize database",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("took", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	if *seed {
		if err := db.SeedCatalog(ctx); err != nil {
			slog.Error("Failed to seed catalog",
				slog.String("type", "db"),
				slog.Any("error", err))
			os.Exit(-1)
		}
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.Duration("took", time.Since(dbStartTime)))

	profileRepo := repositories.NewProfileRepository(db.BunDB())
	scanRepo := repositories.NewScanRepository(db.BunDB())
	productRepo := repositories.NewProductRepository(db.BunDB())
	challengeRepo := repositories.NewChallengeRepository(db.BunDB())
	rewardRepo := repositories.NewRewardRepository(db.BunDB())

	catalog, err := services.NewCatalogService(productRepo)
	if err != nil {
		slog.Error("Failed to initialize catalog", slog.Any("error", err))
		os.Exit(-1)
	}
	dashboard := services.NewDashboardService(profileRepo, scanRepo)
	credits := ledger.New(profileRepo, scanRepo)

	var spaces *services.SpacesService
	if cfg.Spaces.Key != "" && cfg.Spaces.Secret != "" {
		spaces, err = services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ImageRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize image storage", slog.Any("error", err))
			os.Exit(-1)
		}
	} else {
		slog.Info("Image storage not configured, product image uploads disabled",
			slog.String("type", "sys"))
	}

	scanCfg := scanner.Config{
		FallbackTimeout: cfg.Scanner.FallbackTimeout(),
		SettleDelay:     cfg.Scanner.SettleDelay(),
		NavigateDelay:   cfg.Scanner.NavigateDelay(),
	}
	scanManager := scanner.NewManager(catalog, credits, scanCfg, cfg.Scanner.SessionTTL())

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	scanManager.StartCleanupRoutine(appCtx)

	app := fiber.New(fiber.Config{
		AppName:               "EcoScan API",
		DisableStartupMessage: !cfg.Server.Debug,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(cfg.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))
	app.Use(compress.New())
	app.Use(middleware.Logging())
	app.Use(middleware.APIRateLimit())

	api := &handlers.App{
		DB:         db,
		Profiles:   profileRepo,
		Scans:      scanRepo,
		Products:   productRepo,
		Challenges: challengeRepo,
		Rewards:    rewardRepo,
		Catalog:    catalog,
		Dashboard:  dashboard,
		Scanner:    scanManager,
		Spaces:     spaces,
		Version:    version,
	}
	api.RegisterRoutes(app)

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			slog.Error("HTTP server stopped",
				slog.String("type", "http"),
				slog.Any("error", err))
			appCancel()
		}
	}()

	logger.LogSystem("EcoScan API is now running. Press CTRL-C to exit.",
		slog.String("addr", cfg.Server.Addr))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case <-s:
	case <-appCtx.Done():
	}

	logger.LogSystem("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.LogError("Shutdown did not finish cleanly", err)
	}
}

func allowedOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
