package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialRequest is a job card's demand for matching material. IssuedQty is
// cumulative across partial issues and is only ever written by the allocation
// transaction; Remaining is derived, never stored.
type MaterialRequest struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobNo        string          `gorm:"not null;index"`
	ProductCode  string          `gorm:"not null"`
	MaterialType string          `gorm:"not null"`
	PaperSize    string          `gorm:"not null"`
	RequiredQty  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssuedQty    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Completed    bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MaterialRequest) TableName() string { return "material_requests" }

// Remaining is required - issued, clamped at zero (a final partial issue may
// overshoot the requirement).
func (r *MaterialRequest) Remaining() decimal.Decimal {
	rem := r.RequiredQty.Sub(r.IssuedQty)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}
