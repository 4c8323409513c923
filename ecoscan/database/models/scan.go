package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ScanEvent is one row of the append-only scan ledger. Events are
// created once per credited real-product scan and never mutated.
// Synthetic (demo) credits update the profile only and leave no event.
type ScanEvent struct {
	bun.BaseModel `bun:"table:scans,alias:s"`

	ID           string    `bun:"id,pk"`
	UserID       string    `bun:"user_id,notnull"`
	ProductID    string    `bun:"product_id,notnull"`
	PointsEarned int       `bun:"points_earned,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
