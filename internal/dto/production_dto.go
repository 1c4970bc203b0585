package dto

import "github.com/shopspring/decimal"

// MaterialYield describes leftover or WIP stock produced by a stage run; a
// new LO/WIP material row is created for each yield with a fresh paper code.
type MaterialYield struct {
	ProductCode  string          `json:"product_code" validate:"required"`
	MaterialType string          `json:"material_type" validate:"required"`
	PaperSize    string          `json:"paper_size" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required,gt=0"`
}

// ConsumptionRequest records one production-stage run against a job:
// which rolls it consumed, how many meters were used and wasted, and what
// leftover/WIP stock it yielded.
type ConsumptionRequest struct {
	JobNo       string          `json:"job_no" validate:"required"`
	Stage       string          `json:"stage" validate:"required,oneof=printing punching slitting slotting"`
	PaperCodes  []string        `json:"paper_codes" validate:"required,min=1"`
	ProductCode string          `json:"product_code" validate:"required"`
	Category    string          `json:"category" validate:"required,oneof=RAW LO WIP"`
	UsedQty     decimal.Decimal `json:"used_qty" validate:"required,gt=0"`
	WasteQty    decimal.Decimal `json:"waste_qty" validate:"gte=0"`
	Leftovers   []MaterialYield `json:"leftovers" validate:"dive"`
	Wip         []MaterialYield `json:"wip" validate:"dive"`
	Note        string          `json:"note"`
}

type ConsumptionResult struct {
	TransactionID string   `json:"transaction_id"`
	JobNo         string   `json:"job_no"`
	Stage         string   `json:"stage"`
	YieldedCodes  []string `json:"yielded_codes"`
}

type TransactionFilter struct {
	JobNo     string `form:"job_no"`
	Type      string `form:"type"`
	PaperCode string `form:"paper_code"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	JobNo       string          `json:"job_no"`
	Stage       string          `json:"stage,omitempty"`
	Category    string          `json:"category,omitempty"`
	PaperCode   string          `json:"paper_code,omitempty"`
	PaperCodes  string          `json:"paper_codes,omitempty"`
	ProductCode string          `json:"product_code,omitempty"`
	IssuedQty   decimal.Decimal `json:"issued_qty"`
	UsedQty     decimal.Decimal `json:"used_qty"`
	WasteQty    decimal.Decimal `json:"waste_qty"`
	LeftoverQty decimal.Decimal `json:"leftover_qty"`
	WipQty      decimal.Decimal `json:"wip_qty"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   string          `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
