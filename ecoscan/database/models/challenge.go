package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Challenge is a read-only catalog entity shown on the dashboard.
type Challenge struct {
	bun.BaseModel `bun:"table:challenges,alias:ch"`

	ID          string    `bun:"id,pk"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Icon        string    `bun:"icon"`
	Points      int       `bun:"points,notnull"`
	Active      bool      `bun:"active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
