package dto

import "github.com/shopspring/decimal"

// IssueSelection is one stock row picked on the issue screen with the meters
// to take from it.
type IssueSelection struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required,gt=0"`
}

type IssueRequest struct {
	RequestID  string           `json:"request_id" validate:"required,uuid"`
	Selections []IssueSelection `json:"selections" validate:"required,min=1,dive"`
	Note       string           `json:"note"`
}

type IssueResult struct {
	RequestID    string          `json:"request_id"`
	JobNo        string          `json:"job_no"`
	TotalIssued  decimal.Decimal `json:"total_issued"`
	IssuedQty    decimal.Decimal `json:"issued_qty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	Completed    bool            `json:"completed"`
}
