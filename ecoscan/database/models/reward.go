package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reward is a redeemable catalog entity. Redemption itself is handled
// by the partner NGO flow and is not part of this service.
type Reward struct {
	bun.BaseModel `bun:"table:rewards,alias:rw"`

	ID             string    `bun:"id,pk"`
	Name           string    `bun:"name,notnull"`
	Description    string    `bun:"description"`
	PointsRequired int       `bun:"points_required,notnull"`
	PartnerNGO     string    `bun:"partner_ngo"`
	Active         bool      `bun:"active,notnull,default:true"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
