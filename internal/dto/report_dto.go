package dto

import "github.com/shopspring/decimal"

// StockRow is one material in the point-in-time stock report, with derived
// usage figures replayed from the transaction ledger.
type StockRow struct {
	PaperCode    string          `json:"paper_code"`
	Category     string          `json:"category"`
	ProductCode  string          `json:"product_code"`
	MaterialType string          `json:"material_type"`
	PaperSize    string          `json:"paper_size"`
	TotalQty     decimal.Decimal `json:"total_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	UsedQty      decimal.Decimal `json:"used_qty"`
	WasteQty     decimal.Decimal `json:"waste_qty"`
	LeftoverQty  decimal.Decimal `json:"leftover_qty"`
	WipQty       decimal.Decimal `json:"wip_qty"`
	// LastStage is the latest process stage with consumption against a RAW
	// roll; empty for untouched rolls and for LO/WIP.
	LastStage string `json:"last_stage,omitempty"`
	CreatedAt string `json:"created_at"`
}

type StockReportResponse struct {
	Rows        []StockRow `json:"rows"`
	GeneratedAt string     `json:"generated_at"`
	Cached      bool       `json:"cached"`
}
