package dto

import "github.com/shopspring/decimal"

// CreateMaterialRequest registers a purchased RAW roll. The paper code is
// minted server-side; quantity arrives fully available.
type CreateMaterialRequest struct {
	ProductCode  string          `json:"product_code" validate:"required"`
	MaterialType string          `json:"material_type" validate:"required"`
	PaperSize    string          `json:"paper_size" validate:"required"`
	TotalQty     decimal.Decimal `json:"total_qty" validate:"required,gt=0"`
}

// UpdateMaterialRequest edits a RAW roll that has not been issued against.
// Only provided fields are changed.
type UpdateMaterialRequest struct {
	ProductCode  *string          `json:"product_code"`
	MaterialType *string          `json:"material_type"`
	PaperSize    *string          `json:"paper_size"`
	TotalQty     *decimal.Decimal `json:"total_qty" validate:"omitempty,gt=0"`
}

// CandidateQuery filters active stock for an issue screen. All four
// attributes must match the request being issued against.
type CandidateQuery struct {
	Category     string `form:"category" validate:"required,oneof=RAW LO WIP"`
	ProductCode  string `form:"product_code" validate:"required"`
	MaterialType string `form:"material_type" validate:"required"`
	PaperSize    string `form:"paper_size" validate:"required"`
}

type MaterialFilter struct {
	Category string `form:"category"`
	Active   string `form:"active"` // "false" | "all" | default active-only
	JobNo    string `form:"job_no"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type MaterialResponse struct {
	ID           string          `json:"id"`
	PaperCode    string          `json:"paper_code"`
	Category     string          `json:"category"`
	ProductCode  string          `json:"product_code"`
	MaterialType string          `json:"material_type"`
	PaperSize    string          `json:"paper_size"`
	TotalQty     decimal.Decimal `json:"total_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	Active       bool            `json:"active"`
	SourceJobNo  *string         `json:"source_job_no,omitempty"`
	SourceStage  *string         `json:"source_stage,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    string          `json:"created_at"`
}

type MaterialListResponse struct {
	Data  []MaterialResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
