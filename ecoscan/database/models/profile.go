package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile holds a user's running reward totals. The ID is the external
// auth-provider user id. EcoScore and TotalScans are mutated only
// through the reward ledger's atomic increment.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	ID          string    `bun:"id,pk"`
	DisplayName string    `bun:"display_name"`
	Email       string    `bun:"email"`
	EcoScore    int64     `bun:"eco_score,notnull,default:0"`
	TotalScans  int64     `bun:"total_scans,notnull,default:0"`
	Level       string    `bun:"level,notnull,default:'Eco Rookie'"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
