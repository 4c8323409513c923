package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// SyntheticIDPrefix marks products fabricated by the demo fallback path.
// Synthetic products are never persisted.
const SyntheticIDPrefix = "demo-"

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID              string    `bun:"id,pk"`
	Barcode         string    `bun:"barcode,notnull,unique"`
	Name            string    `bun:"name,notnull"`
	OverallScore    int       `bun:"overall_score,notnull"`
	CarbonFootprint int       `bun:"carbon_footprint,notnull"`
	EthicalScore    int       `bun:"ethical_score,notnull"`
	Recyclable      bool      `bun:"recyclable,notnull,default:false"`
	ImageURL        string    `bun:"image_url"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Synthetic reports whether the product was fabricated by the demo
// fallback rather than loaded from the catalog.
func (p *Product) Synthetic() bool {
	return strings.HasPrefix(p.ID, SyntheticIDPrefix)
}
