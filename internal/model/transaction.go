package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TxIssue       = "issue"
	TxConsumption = "consumption"
)

// Production stages in fixed process order. StageRank resolves the
// last-stage-wins rule for RAW usage in the stock report.
const (
	StagePrinting = "printing"
	StagePunching = "punching"
	StageSlitting = "slitting"
	StageSlotting = "slotting"
)

var stageOrder = map[string]int{
	StagePrinting: 1,
	StagePunching: 2,
	StageSlitting: 3,
	StageSlotting: 4,
}

// StageRank returns the position of a stage in process order, 0 if unknown.
func StageRank(stage string) int { return stageOrder[stage] }

// Transaction is one immutable stock movement: an issue against a material
// request, or a production-stage consumption event. Rows are append-only;
// no update or delete path exists anywhere in the codebase.
type Transaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type     string    `gorm:"type:varchar(20);not null;index"` // issue | consumption
	JobNo    string    `gorm:"not null;index"`
	Stage    string    // consumption only
	Category string    `gorm:"type:varchar(10)"`
	// PaperCode is the single roll an issue (or LO/WIP consumption) acted on.
	// PaperCodes is the comma-separated list of RAW rolls consumed together
	// in one stage run.
	PaperCode   string `gorm:"index"`
	PaperCodes  string
	ProductCode string
	IssuedQty   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UsedQty     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	WasteQty    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LeftoverQty decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	WipQty      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Note        string
	CreatedBy   string `gorm:"not null"`
	CreatedAt   time.Time
}

func (Transaction) TableName() string { return "transactions" }

// ConsumedCodes splits the comma-separated RAW roll list, trimming blanks.
func (t *Transaction) ConsumedCodes() []string {
	if t.PaperCodes == "" {
		return nil
	}
	parts := strings.Split(t.PaperCodes, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Touches reports whether this transaction consumed the given roll, matching
// either the single-code field or the consumed-codes list.
func (t *Transaction) Touches(paperCode string) bool {
	if t.PaperCode == paperCode {
		return true
	}
	for _, c := range t.ConsumedCodes() {
		if c == paperCode {
			return true
		}
	}
	return false
}
