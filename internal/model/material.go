package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material categories. LO and WIP rows are produced by consumption events
// and carry the job + stage they came from.
const (
	CategoryRaw = "RAW"
	CategoryLO  = "LO"
	CategoryWIP = "WIP"
)

// Material is one physical stock unit (a paper roll), identified by its
// minted paper code. AvailableQty only ever decreases, via allocation;
// Active mirrors AvailableQty > 0 and is recomputed on every decrement.
type Material struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperCode    string          `gorm:"uniqueIndex;not null"`
	Category     string          `gorm:"type:varchar(10);not null;index"` // RAW | LO | WIP
	ProductCode  string          `gorm:"not null;index"`
	MaterialType string          `gorm:"not null"`
	PaperSize    string          `gorm:"not null"` // canonical decimal string, normalized at write time
	TotalQty     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AvailableQty decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active       bool            `gorm:"not null;default:true"`
	// Source of LO/WIP stock; nil for purchased RAW rolls.
	SourceJobNo *string `gorm:"index"`
	SourceStage *string
	CreatedBy   string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Material) TableName() string { return "materials" }

// Issued reports whether any meters have been allocated from this roll.
func (m *Material) Issued() bool {
	return m.AvailableQty.LessThan(m.TotalQty)
}
