package models

import (
	"time"

	dbmodels "github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/ledger"
	"github.com/greenloop/ecoscan/ecoscan/ranking"
	"github.com/greenloop/ecoscan/ecoscan/scanner"
	"github.com/greenloop/ecoscan/ecoscan/services"
)

// ProductView is the public shape of a catalog product.
type ProductView struct {
	ID              string `json:"id"`
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	OverallScore    int    `json:"overall_score"`
	CarbonFootprint int    `json:"carbon_footprint"`
	EthicalScore    int    `json:"ethical_score"`
	Recyclable      bool   `json:"recyclable"`
	ImageURL        string `json:"image_url,omitempty"`
}

func NewProductView(p *dbmodels.Product) ProductView {
	return ProductView{
		ID:              p.ID,
		Barcode:         p.Barcode,
		Name:            p.Name,
		OverallScore:    p.OverallScore,
		CarbonFootprint: p.CarbonFootprint,
		EthicalScore:    p.EthicalScore,
		Recyclable:      p.Recyclable,
		ImageURL:        p.ImageURL,
	}
}

func NewProductViews(products []*dbmodels.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}

// CreditView carries post-credit totals back to the client.
type CreditView struct {
	PointsEarned int    `json:"points_earned"`
	EcoScore     int64  `json:"eco_score"`
	TotalScans   int64  `json:"total_scans"`
	Level        string `json:"level"`
}

func NewCreditView(r *ledger.Result) *CreditView {
	if r == nil {
		return nil
	}
	return &CreditView{
		PointsEarned: r.PointsEarned,
		EcoScore:     r.EcoScore,
		TotalScans:   r.TotalScans,
		Level:        r.Level,
	}
}

// ScanSessionView is the polling shape of a camera scan session.
type ScanSessionView struct {
	ID       string      `json:"id"`
	State    string      `json:"state"`
	Barcode  string      `json:"barcode,omitempty"`
	Result   *CreditView `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
	Navigate bool        `json:"navigate"`
}

func NewScanSessionView(snap scanner.Snapshot) ScanSessionView {
	view := ScanSessionView{
		ID:       snap.ID,
		State:    snap.State.String(),
		Barcode:  snap.Barcode,
		Result:   NewCreditView(snap.Result),
		Navigate: snap.Navigate,
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	return view
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"`
	EcoScore    int64  `json:"eco_score"`
	TotalScans  int64  `json:"total_scans"`
}

// LeaderboardResponse ranks the top profiles and locates the caller.
type LeaderboardResponse struct {
	Entries         []LeaderboardEntry `json:"entries"`
	TotalUsers      int                `json:"total_users"`
	CurrentUserRank *int               `json:"current_user_rank"`
}

// RecentScanView is one row of the dashboard's recent activity.
type RecentScanView struct {
	ID           string    `json:"id"`
	ProductName  string    `json:"product_name"`
	OverallScore int       `json:"overall_score"`
	PointsEarned int       `json:"points_earned"`
	CreatedAt    time.Time `json:"created_at"`
}

// DashboardResponse is the dashboard page payload.
type DashboardResponse struct {
	UserID        string             `json:"user_id"`
	DisplayName   string             `json:"display_name"`
	EcoScore      int64              `json:"eco_score"`
	TotalScans    int64              `json:"total_scans"`
	Level         string             `json:"level"`
	LevelProgress float64            `json:"level_progress"`
	NextLevel     string             `json:"next_level,omitempty"`
	Rank          *int               `json:"rank"`
	TotalUsers    int                `json:"total_users"`
	Distribution  ranking.Buckets    `json:"distribution"`
	Daily         []ranking.DayPoints `json:"daily"`
	RecentScans   []RecentScanView   `json:"recent_scans"`
}

func NewDashboardResponse(d *services.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		UserID:        d.Profile.ID,
		DisplayName:   d.Profile.DisplayName,
		EcoScore:      d.Profile.EcoScore,
		TotalScans:    d.Profile.TotalScans,
		Level:         d.Level,
		LevelProgress: d.LevelProgress,
		NextLevel:     d.NextLevel,
		Rank:          RankPointer(d.Rank),
		TotalUsers:    d.TotalUsers,
		Distribution:  d.Distribution,
		Daily:         d.Daily,
		RecentScans:   make([]RecentScanView, 0, len(d.RecentScans)),
	}
	for _, scan := range d.RecentScans {
		view := RecentScanView{
			ID:           scan.ID,
			PointsEarned: scan.PointsEarned,
			CreatedAt:    scan.CreatedAt,
		}
		if scan.Product != nil {
			view.ProductName = scan.Product.Name
			view.OverallScore = scan.Product.OverallScore
		}
		resp.RecentScans = append(resp.RecentScans, view)
	}
	return resp
}

// RankPointer maps the engine's "0 = absent" convention onto JSON null.
func RankPointer(rank int) *int {
	if rank == 0 {
		return nil
	}
	return &rank
}

// ChallengeView mirrors the read-only challenge catalog.
type ChallengeView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`
}

// RewardView mirrors the read-only reward catalog.
type RewardView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	PointsRequired int    `json:"points_required"`
	PartnerNGO     string `json:"partner_ngo,omitempty"`
}
