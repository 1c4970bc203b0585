package dto

import "github.com/shopspring/decimal"

// CreateJobCardRequest opens a production order. The job number is minted
// server-side and the paired material request is created in the same
// transaction.
type CreateJobCardRequest struct {
	CustomerName string          `json:"customer_name" validate:"required"`
	LabelName    string          `json:"label_name" validate:"required"`
	ProductCode  string          `json:"product_code" validate:"required"`
	MaterialType string          `json:"material_type" validate:"required"`
	PaperSize    string          `json:"paper_size" validate:"required"`
	RequiredQty  decimal.Decimal `json:"required_qty" validate:"required,gt=0"`
}

type JobCardResponse struct {
	ID                  string               `json:"id"`
	JobNo               string               `json:"job_no"`
	CustomerName        string               `json:"customer_name"`
	LabelName           string               `json:"label_name"`
	MaterialAllotStatus string               `json:"material_allot_status"`
	Allocations         []AllocationResponse `json:"allocations"`
	CreatedBy           string               `json:"created_by"`
	CreatedAt           string               `json:"created_at"`
}

type AllocationResponse struct {
	Idx          int             `json:"idx"`
	ProductCode  string          `json:"product_code"`
	PaperCode    string          `json:"paper_code"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	Category     string          `json:"category"`
}

type JobCardListResponse struct {
	Data  []JobCardResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type JobFilter struct {
	AllotStatus string `form:"allot_status"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// MaterialRequestView is the ledger view of one request; Remaining is derived
// and clamped at zero.
type MaterialRequestView struct {
	ID           string          `json:"id"`
	JobNo        string          `json:"job_no"`
	ProductCode  string          `json:"product_code"`
	MaterialType string          `json:"material_type"`
	PaperSize    string          `json:"paper_size"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	IssuedQty    decimal.Decimal `json:"issued_qty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	Completed    bool            `json:"completed"`
}
