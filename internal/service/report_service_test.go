package service

import (
	"context"
	"testing"

	"jalaram/internal/dto"
	"jalaram/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memReportCache is a trivial in-process cache for exercising the hit path.
type memReportCache struct{ report *dto.StockReportResponse }

func (c *memReportCache) Get(context.Context) (*dto.StockReportResponse, bool) {
	if c.report == nil {
		return nil, false
	}
	return c.report, true
}
func (c *memReportCache) Set(_ context.Context, r *dto.StockReportResponse) { c.report = r }
func (c *memReportCache) Invalidate(context.Context)                        { c.report = nil }

func rawRoll(code string, total float64) *model.Material {
	return &model.Material{
		ID: uuid.New(), PaperCode: code, Category: model.CategoryRaw,
		ProductCode: "PC-01", MaterialType: "Chromo", PaperSize: "104",
		TotalQty: d(total), AvailableQty: d(total), Active: true, CreatedBy: "Admin",
	}
}

func consumption(stage, codes string, used, waste, lo, wip float64) model.Transaction {
	return model.Transaction{
		ID: uuid.New(), Type: model.TxConsumption, JobNo: "0826-01",
		Stage: stage, Category: model.CategoryRaw, PaperCodes: codes,
		UsedQty: d(used), WasteQty: d(waste), LeftoverQty: d(lo), WipQty: d(wip),
		CreatedBy: "Mahesh",
	}
}

func TestRawUsageLastStageWins(t *testing.T) {
	m := rawRoll("JLR-26-001", 100)

	// The roll moves printing → punching. Printing pushed 50 m through, then
	// punching processed 30 m of that output. Counting both would double-count
	// the same paper; only the last stage's 30 m is the roll's usage.
	txs := []model.Transaction{
		consumption(model.StagePrinting, "JLR-26-001", 50, 2, 0, 0),
		consumption(model.StagePunching, "JLR-26-001", 30, 1, 5, 0),
	}

	b := rawUsage{}.compute(m, txs)
	assert.Equal(t, "30", b.Used.String())
	assert.Equal(t, "3", b.Waste.String())    // waste accumulates across stages
	assert.Equal(t, "5", b.Leftover.String()) // so do leftovers
	assert.Equal(t, model.StagePunching, b.LastStage)
}

func TestRawUsageSumsWithinLastStage(t *testing.T) {
	m := rawRoll("JLR-26-001", 200)

	// Two separate punching runs both count: same stage, not double counting.
	txs := []model.Transaction{
		consumption(model.StagePrinting, "JLR-26-001", 80, 0, 0, 0),
		consumption(model.StagePunching, "JLR-26-001", 30, 0, 0, 0),
		consumption(model.StagePunching, "JLR-26-001", 25, 0, 0, 0),
	}

	b := rawUsage{}.compute(m, txs)
	assert.Equal(t, "55", b.Used.String())
}

func TestRawUsageIgnoresOtherRolls(t *testing.T) {
	m := rawRoll("JLR-26-001", 100)
	txs := []model.Transaction{
		consumption(model.StagePrinting, "JLR-26-002,JLR-26-003", 60, 4, 0, 0),
	}

	b := rawUsage{}.compute(m, txs)
	assert.True(t, b.Used.IsZero())
	assert.True(t, b.Waste.IsZero())
	assert.Empty(t, b.LastStage)
}

func TestRawUsageMatchesWithinCodeList(t *testing.T) {
	m := rawRoll("JLR-26-002", 100)
	txs := []model.Transaction{
		consumption(model.StageSlitting, "JLR-26-001,JLR-26-002", 40, 2, 0, 0),
	}

	b := rawUsage{}.compute(m, txs)
	assert.Equal(t, "40", b.Used.String())
	assert.Equal(t, model.StageSlitting, b.LastStage)
}

func TestDerivedUsageIsResidual(t *testing.T) {
	m := &model.Material{
		ID: uuid.New(), PaperCode: "JLR-26-010", Category: model.CategoryLO,
		TotalQty: d(50), AvailableQty: d(50),
	}
	tx := model.Transaction{
		ID: uuid.New(), Type: model.TxConsumption, Stage: model.StageSlitting,
		Category: model.CategoryLO, PaperCode: "JLR-26-010",
		WasteQty: d(5), LeftoverQty: d(10), WipQty: d(0),
	}

	b := derivedUsage{}.compute(m, []model.Transaction{tx})
	// used = total - waste - leftover - wip
	assert.Equal(t, "35", b.Used.String())
	assert.Equal(t, "5", b.Waste.String())
	assert.Equal(t, "10", b.Leftover.String())
}

func TestDerivedUsageUntouchedReportsZeros(t *testing.T) {
	m := &model.Material{
		ID: uuid.UUID{}, PaperCode: "JLR-26-011", Category: model.CategoryWIP,
		TotalQty: d(30), AvailableQty: d(30),
	}

	b := derivedUsage{}.compute(m, nil)
	assert.True(t, b.Used.IsZero())
	assert.True(t, b.Waste.IsZero())
	assert.True(t, b.Leftover.IsZero())
	assert.True(t, b.Wip.IsZero())
}

func TestDerivedUsageClampsAtZero(t *testing.T) {
	m := &model.Material{
		ID: uuid.New(), PaperCode: "JLR-26-012", Category: model.CategoryLO,
		TotalQty: d(20), AvailableQty: d(20),
	}
	tx := model.Transaction{
		ID: uuid.New(), Type: model.TxConsumption, Category: model.CategoryLO,
		PaperCode: "JLR-26-012", WasteQty: d(15), LeftoverQty: d(10),
	}

	b := derivedUsage{}.compute(m, []model.Transaction{tx})
	assert.True(t, b.Used.IsZero()) // outputs exceed total: clamp, don't go negative
}

func TestBuildReportRowsAndCacheRoundTrip(t *testing.T) {
	materials := newStubMaterialRepo()
	txs := newStubTransactionRepo()
	cache := &memReportCache{}
	svc := NewReportService(materials, txs, cache)

	roll := rawRoll("JLR-26-001", 100)
	materials.materials[roll.ID] = roll
	require.NoError(t, txs.CreateTx(nil, &model.Transaction{
		Type: model.TxConsumption, JobNo: "0826-01", Stage: model.StagePrinting,
		Category: model.CategoryRaw, PaperCodes: "JLR-26-001",
		UsedQty: d(40), WasteQty: d(2), CreatedBy: "Mahesh",
	}))

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.False(t, report.Cached)
	assert.Equal(t, "40", report.Rows[0].UsedQty.String())
	assert.Equal(t, "2", report.Rows[0].WasteQty.String())
	assert.Equal(t, model.StagePrinting, report.Rows[0].LastStage)

	// Second call is served from cache.
	again, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Cached)

	// Invalidation forces a rebuild.
	cache.Invalidate(context.Background())
	rebuilt, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	assert.False(t, rebuilt.Cached)
}

func TestExportExcelProducesWorkbook(t *testing.T) {
	materials := newStubMaterialRepo()
	roll := rawRoll("JLR-26-001", 100)
	materials.materials[roll.ID] = roll
	svc := NewReportService(materials, newStubTransactionRepo(), NoopReportCache{})

	data, err := svc.ExportExcel(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
