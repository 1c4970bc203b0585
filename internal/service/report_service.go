package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService derives the point-in-time stock report by replaying the
// consumption ledger per material, and exports it as an Excel workbook.
type ReportService interface {
	BuildReport(ctx context.Context) (*dto.StockReportResponse, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}

// usageBreakdown is the derived consumption picture for one roll.
type usageBreakdown struct {
	Used      decimal.Decimal
	Waste     decimal.Decimal
	Leftover  decimal.Decimal
	Wip       decimal.Decimal
	LastStage string
}

// usageComputer derives a roll's usage from its matching transactions.
// One implementation per category family keeps the last-stage-wins rule for
// RAW testable in isolation from the LO/WIP residual computation.
type usageComputer interface {
	compute(m *model.Material, txs []model.Transaction) usageBreakdown
}

// rawUsage: a RAW roll travels through several stages, so summing every
// stage's used meters would count the same paper once per stage. Only the
// last stage's usage counts; waste/LO/WIP are permanent outputs and sum
// across all stages.
type rawUsage struct{}

func (rawUsage) compute(m *model.Material, txs []model.Transaction) usageBreakdown {
	var b usageBreakdown
	b.Used, b.Waste, b.Leftover, b.Wip = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	lastRank := 0
	for i := range txs {
		t := &txs[i]
		if !matchesRaw(m, t) {
			continue
		}
		b.Waste = b.Waste.Add(t.WasteQty)
		b.Leftover = b.Leftover.Add(t.LeftoverQty)
		b.Wip = b.Wip.Add(t.WipQty)
		if r := model.StageRank(t.Stage); r > lastRank {
			lastRank = r
			b.LastStage = t.Stage
		}
	}
	if b.LastStage == "" {
		return b
	}
	for i := range txs {
		t := &txs[i]
		if t.Stage == b.LastStage && matchesRaw(m, t) {
			b.Used = b.Used.Add(t.UsedQty)
		}
	}
	return b
}

// derivedUsage: LO/WIP rolls are single-stage inputs. Untouched rolls report
// zeros; otherwise used meters are whatever the outputs don't account for.
type derivedUsage struct{}

func (derivedUsage) compute(m *model.Material, txs []model.Transaction) usageBreakdown {
	var b usageBreakdown
	b.Used, b.Waste, b.Leftover, b.Wip = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	touched := false
	for i := range txs {
		t := &txs[i]
		if !t.Touches(m.PaperCode) {
			continue
		}
		touched = true
		b.Waste = b.Waste.Add(t.WasteQty)
		b.Leftover = b.Leftover.Add(t.LeftoverQty)
		b.Wip = b.Wip.Add(t.WipQty)
	}
	if !touched {
		return b
	}
	used := m.TotalQty.Sub(b.Waste).Sub(b.Leftover).Sub(b.Wip)
	if used.IsNegative() {
		used = decimal.Zero
	}
	b.Used = used
	return b
}

// matchesRaw: a stage run lists the RAW rolls it consumed in the
// comma-separated codes field.
func matchesRaw(m *model.Material, t *model.Transaction) bool {
	for _, c := range t.ConsumedCodes() {
		if c == m.PaperCode {
			return true
		}
	}
	return false
}

func computerFor(category string) usageComputer {
	if category == model.CategoryRaw {
		return rawUsage{}
	}
	return derivedUsage{}
}

// ── ReportCache ───────────────────────────────────────────────────────────────

const reportCacheKey = "cache:stock_report"

// ReportCache holds the serialized stock report between stock mutations.
// Every write path (purchase, edit, issue, consumption) invalidates it.
type ReportCache interface {
	Get(ctx context.Context) (*dto.StockReportResponse, bool)
	Set(ctx context.Context, report *dto.StockReportResponse)
	Invalidate(ctx context.Context)
}

type redisReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisReportCache(rdb *redis.Client, ttl time.Duration) ReportCache {
	return &redisReportCache{rdb: rdb, ttl: ttl}
}

func (c *redisReportCache) Get(ctx context.Context) (*dto.StockReportResponse, bool) {
	raw, err := c.rdb.Get(ctx, reportCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var report dto.StockReportResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (c *redisReportCache) Set(ctx context.Context, report *dto.StockReportResponse) {
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, reportCacheKey, raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("report cache: set failed")
	}
}

func (c *redisReportCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, reportCacheKey).Err(); err != nil {
		log.Debug().Err(err).Msg("report cache: invalidate failed")
	}
}

// NoopReportCache is used when Redis is absent (unit tests).
type NoopReportCache struct{}

func (NoopReportCache) Get(context.Context) (*dto.StockReportResponse, bool) { return nil, false }
func (NoopReportCache) Set(context.Context, *dto.StockReportResponse)       {}
func (NoopReportCache) Invalidate(context.Context)                          {}

// ── Service ───────────────────────────────────────────────────────────────────

type reportService struct {
	materialRepo repository.MaterialRepository
	txRepo       repository.TransactionRepository
	cache        ReportCache
}

func NewReportService(materialRepo repository.MaterialRepository, txRepo repository.TransactionRepository, cache ReportCache) ReportService {
	return &reportService{materialRepo: materialRepo, txRepo: txRepo, cache: cache}
}

func (s *reportService) BuildReport(ctx context.Context) (*dto.StockReportResponse, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		cached.Cached = true
		return cached, nil
	}

	// ListAll is already ordered by creation date descending.
	materials, err := s.materialRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	consumptions, err := s.txRepo.ListConsumptions(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.StockRow, 0, len(materials))
	for i := range materials {
		m := &materials[i]
		b := computerFor(m.Category).compute(m, consumptions)
		rows = append(rows, dto.StockRow{
			PaperCode:    m.PaperCode,
			Category:     m.Category,
			ProductCode:  m.ProductCode,
			MaterialType: m.MaterialType,
			PaperSize:    m.PaperSize,
			TotalQty:     m.TotalQty,
			AvailableQty: m.AvailableQty,
			UsedQty:      b.Used,
			WasteQty:     b.Waste,
			LeftoverQty:  b.Leftover,
			WipQty:       b.Wip,
			LastStage:    b.LastStage,
			CreatedAt:    m.CreatedAt.Format(time.RFC3339),
		})
	}

	report := &dto.StockReportResponse{
		Rows:        rows,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.cache.Set(ctx, report)
	return report, nil
}

func (s *reportService) ExportExcel(ctx context.Context) ([]byte, error) {
	report, err := s.BuildReport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Stock Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Paper Code", "Category", "Product Code", "Material Type",
		"Paper Size", "Total (m)", "Available (m)", "Used (m)", "Waste (m)",
		"Leftover (m)", "WIP (m)", "Last Stage", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range report.Rows {
		values := []interface{}{
			row.PaperCode, row.Category, row.ProductCode, row.MaterialType,
			row.PaperSize, row.TotalQty.InexactFloat64(), row.AvailableQty.InexactFloat64(),
			row.UsedQty.InexactFloat64(), row.WasteQty.InexactFloat64(),
			row.LeftoverQty.InexactFloat64(), row.WipQty.InexactFloat64(),
			row.LastStage, row.CreatedAt,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
