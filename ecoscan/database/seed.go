package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

// SeedCatalog inserts the starter product, challenge and reward rows
// when the respective tables are empty. Existing data is left alone.
func (db *DB) SeedCatalog(ctx context.Context) error {
	count, err := db.bunDB.NewSelect().Model((*models.Product)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		slog.Debug("Catalog already seeded, skipping",
			slog.String("type", "db"),
			slog.Int("products", count))
		return nil
	}

	products := []*models.Product{
		{Barcode: "8901030778261", Name: "Bamboo Toothbrush", OverallScore: 92, CarbonFootprint: 88, EthicalScore: 95, Recyclable: true},
		{Barcode: "5000112637922", Name: "Organic Oat Milk 1L", OverallScore: 85, CarbonFootprint: 80, EthicalScore: 90, Recyclable: true},
		{Barcode: "7622210449283", Name: "Fair Trade Dark Chocolate", OverallScore: 78, CarbonFootprint: 65, EthicalScore: 92, Recyclable: true},
		{Barcode: "4006381333931", Name: "Recycled Paper Notebook", OverallScore: 74, CarbonFootprint: 76, EthicalScore: 70, Recyclable: true},
		{Barcode: "3017620422003", Name: "Hazelnut Spread 400g", OverallScore: 34, CarbonFootprint: 28, EthicalScore: 41, Recyclable: false},
		{Barcode: "0012000161155", Name: "Bottled Cola 500ml", OverallScore: 22, CarbonFootprint: 18, EthicalScore: 35, Recyclable: true},
		{Barcode: "8710447317020", Name: "Refill Laundry Detergent", OverallScore: 68, CarbonFootprint: 72, EthicalScore: 61, Recyclable: true},
		{Barcode: "4902505139826", Name: "Single-Use Razor Pack", OverallScore: 15, CarbonFootprint: 12, EthicalScore: 25, Recyclable: false},
	}
	for _, p := range products {
		p.ID = uuid.NewString()
	}

	challenges := []*models.Challenge{
		{ID: uuid.NewString(), Title: "First Steps", Description: "Scan your first 5 products", Icon: "leaf", Points: 50, Active: true},
		{ID: uuid.NewString(), Title: "Week Streak", Description: "Scan at least one product every day for 7 days", Icon: "flame", Points: 150, Active: true},
		{ID: uuid.NewString(), Title: "Green Basket", Description: "Scan 10 products scoring 70 or higher", Icon: "basket", Points: 200, Active: true},
	}

	rewards := []*models.Reward{
		{ID: uuid.NewString(), Name: "Plant a Tree", Description: "We plant one tree on your behalf", PointsRequired: 500, PartnerNGO: "One Tree Planted", Active: true},
		{ID: uuid.NewString(), Name: "Ocean Cleanup 1kg", Description: "Remove 1kg of plastic from the ocean", PointsRequired: 1000, PartnerNGO: "The Ocean Cleanup", Active: true},
		{ID: uuid.NewString(), Name: "Solar Lamp Donation", Description: "Donate a solar lamp to an off-grid household", PointsRequired: 2500, PartnerNGO: "SolarAid", Active: true},
	}

	if _, err := db.bunDB.NewInsert().Model(&products).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if _, err := db.bunDB.NewInsert().Model(&challenges).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed challenges: %w", err)
	}
	if _, err := db.bunDB.NewInsert().Model(&rewards).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed rewards: %w", err)
	}

	slog.Info("Catalog seeded",
		slog.String("type", "db"),
		slog.Int("products", len(products)),
		slog.Int("challenges", len(challenges)),
		slog.Int("rewards", len(rewards)))
	return nil
}
