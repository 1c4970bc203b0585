package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func yieldTotal(ys []dto.MaterialYield) decimal.Decimal {
	total := decimal.Zero
	for _, y := range ys {
		total = total.Add(y.Quantity)
	}
	return total
}

// ProductionService records stage runs: which rolls a stage consumed, the
// meters used and wasted, and the leftover/WIP stock the run yielded. The
// consumption transaction and all yielded material rows are created
// atomically; the stock report later replays these events.
type ProductionService interface {
	RecordConsumption(ctx context.Context, actor string, req dto.ConsumptionRequest) (*dto.ConsumptionResult, error)
}

type productionService struct {
	materialRepo repository.MaterialRepository
	txRepo       repository.TransactionRepository
	codes        CodeService
	cache        ReportCache
}

func NewProductionService(
	materialRepo repository.MaterialRepository,
	txRepo repository.TransactionRepository,
	codes CodeService,
	cache ReportCache,
) ProductionService {
	return &productionService{materialRepo: materialRepo, txRepo: txRepo, codes: codes, cache: cache}
}

func (s *productionService) RecordConsumption(ctx context.Context, actor string, req dto.ConsumptionRequest) (*dto.ConsumptionResult, error) {
	// Every consumed roll must exist before anything is written.
	for _, code := range req.PaperCodes {
		if _, err := s.materialRepo.FindByPaperCode(ctx, code); err != nil {
			return nil, fmt.Errorf("consumed material %s not found", code)
		}
	}

	loTotal := yieldTotal(req.Leftovers)
	wipTotal := yieldTotal(req.Wip)

	var created model.Transaction
	var yielded []string
	txErr := runTx(ctx, s.materialRepo.DB(), func(tx *gorm.DB) error {
		created = model.Transaction{
			Type:        model.TxConsumption,
			JobNo:       req.JobNo,
			Stage:       req.Stage,
			Category:    req.Category,
			ProductCode: req.ProductCode,
			UsedQty:     req.UsedQty,
			WasteQty:    req.WasteQty,
			LeftoverQty: loTotal,
			WipQty:      wipTotal,
			Note:        req.Note,
			CreatedBy:   actor,
		}
		// RAW runs consume several rolls together; the report matches a roll
		// by membership in the comma-separated list. LO/WIP runs touch a
		// single roll, matched exactly.
		if req.Category == model.CategoryRaw || len(req.PaperCodes) > 1 {
			created.PaperCodes = strings.Join(req.PaperCodes, ",")
		} else {
			created.PaperCode = req.PaperCodes[0]
		}
		if err := s.txRepo.CreateTx(tx, &created); err != nil {
			return err
		}

		mint := func(category string, y dto.MaterialYield) error {
			size, err := NormalizePaperSize(y.PaperSize)
			if err != nil {
				return err
			}
			code, err := s.codes.NextPaperCodeTx(tx, time.Now())
			if err != nil {
				return err
			}
			jobNo, stage := req.JobNo, req.Stage
			m := model.Material{
				PaperCode:    code,
				Category:     category,
				ProductCode:  y.ProductCode,
				MaterialType: y.MaterialType,
				PaperSize:    size,
				TotalQty:     y.Quantity,
				AvailableQty: y.Quantity,
				Active:       true,
				SourceJobNo:  &jobNo,
				SourceStage:  &stage,
				CreatedBy:    actor,
			}
			if err := s.materialRepo.CreateTx(tx, &m); err != nil {
				return err
			}
			yielded = append(yielded, code)
			return nil
		}
		for _, y := range req.Leftovers {
			if err := mint(model.CategoryLO, y); err != nil {
				return err
			}
		}
		for _, y := range req.Wip {
			if err := mint(model.CategoryWIP, y); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidate(ctx)
	return &dto.ConsumptionResult{
		TransactionID: created.ID.String(),
		JobNo:         req.JobNo,
		Stage:         req.Stage,
		YieldedCodes:  yielded,
	}, nil
}
