package scanner

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

// Synthetic score bands. Biased high so the demo fallback always pays
// out a visible reward.
const (
	syntheticCarbonMin  = 70
	syntheticCarbonSpan = 30
	syntheticEthicsMin  = 80
	syntheticEthicsSpan = 20
	syntheticScoreMin   = 85
	syntheticScoreSpan  = 15
)

// NewSyntheticProduct fabricates a demo product with a fresh barcode
// and randomized high-band scores. Synthetic products credit the
// profile but are never persisted, so the generated ids only need to
// be unique within a session's lifetime.
func NewSyntheticProduct(now time.Time) *models.Product {
	ms := now.UnixMilli()
	return &models.Product{
		ID:              fmt.Sprintf("%s%d", models.SyntheticIDPrefix, ms),
		Barcode:         fmt.Sprintf("DEMO%d", ms),
		Name:            "Demo Eco Product",
		CarbonFootprint: syntheticCarbonMin + rand.Intn(syntheticCarbonSpan),
		EthicalScore:    syntheticEthicsMin + rand.Intn(syntheticEthicsSpan),
		OverallScore:    syntheticScoreMin + rand.Intn(syntheticScoreSpan),
		Recyclable:      true,
		CreatedAt:       now,
	}
}
