package service

import (
	"context"
	"errors"
	"fmt"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"
	"jalaram/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationService issues stock against material requests. One Issue call
// runs as a single DB transaction:
//  1. per selection, in input order: conditional decrement of the roll's
//     available meters + an append-only issue transaction row
//  2. cumulative update of the request's issued/completed state
//  3. allocation rows appended to the job card at consecutive indices
//
// Everything commits or nothing does; a roll depleted by a concurrent issue
// aborts the whole call with an insufficient-stock error.
type AllocationService interface {
	Issue(ctx context.Context, actor string, req dto.IssueRequest) (*dto.IssueResult, error)
	LoadRequest(ctx context.Context, id uuid.UUID) (*dto.MaterialRequestView, error)
}

type allocationService struct {
	materialRepo repository.MaterialRepository
	requestRepo  repository.RequestRepository
	txRepo       repository.TransactionRepository
	jobRepo      repository.JobRepository
	dispatcher   *worker.Dispatcher
	cache        ReportCache
	lowStockMark decimal.Decimal
}

func NewAllocationService(
	materialRepo repository.MaterialRepository,
	requestRepo repository.RequestRepository,
	txRepo repository.TransactionRepository,
	jobRepo repository.JobRepository,
	dispatcher *worker.Dispatcher,
	cache ReportCache,
	lowStockMark decimal.Decimal,
) AllocationService {
	return &allocationService{
		materialRepo: materialRepo,
		requestRepo:  requestRepo,
		txRepo:       txRepo,
		jobRepo:      jobRepo,
		dispatcher:   dispatcher,
		cache:        cache,
		lowStockMark: lowStockMark,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with in-memory stubs).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *allocationService) Issue(ctx context.Context, actor string, req dto.IssueRequest) (*dto.IssueResult, error) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return nil, fmt.Errorf("invalid request_id: %w", err)
	}
	if len(req.Selections) == 0 {
		return nil, errors.New("at least one stock selection is required")
	}

	// 1. Pre-flight validation against current snapshots, no writes yet.
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, errors.New("material request not found")
	}
	if request.Completed || request.Remaining().IsZero() {
		return nil, errors.New("material request is already fulfilled; nothing remains to issue")
	}

	type resolvedSelection struct {
		material *model.Material
		qty      decimal.Decimal
	}

	resolved := make([]resolvedSelection, 0, len(req.Selections))
	total := decimal.Zero
	for _, sel := range req.Selections {
		mid, err := uuid.Parse(sel.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("invalid material_id %q: %w", sel.MaterialID, err)
		}
		if !sel.Quantity.IsPositive() {
			return nil, errors.New("issue quantity must be greater than zero")
		}
		m, err := s.materialRepo.FindByID(ctx, mid)
		if err != nil {
			return nil, fmt.Errorf("material %s not found", sel.MaterialID)
		}
		if !m.Active {
			return nil, fmt.Errorf("material %s is depleted", m.PaperCode)
		}
		if m.ProductCode != request.ProductCode || m.MaterialType != request.MaterialType || m.PaperSize != request.PaperSize {
			return nil, fmt.Errorf("material %s does not match the request's product/type/size", m.PaperCode)
		}
		if sel.Quantity.GreaterThan(m.AvailableQty) {
			return nil, fmt.Errorf("insufficient stock on %s: requested %s m, available %s m",
				m.PaperCode, sel.Quantity.StringFixed(2), m.AvailableQty.StringFixed(2))
		}
		resolved = append(resolved, resolvedSelection{material: m, qty: sel.Quantity})
		total = total.Add(sel.Quantity)
	}

	// 2. Apply everything in one transaction.
	var newIssued decimal.Decimal
	var completed bool
	txErr := runTx(ctx, s.requestRepo.DB(), func(tx *gorm.DB) error {
		for _, r := range resolved {
			if err := s.materialRepo.DecrementAvailableTx(tx, r.material.ID, r.qty); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("stock on %s changed while issuing; retry the issue", r.material.PaperCode)
				}
				return err
			}
			if err := s.txRepo.CreateTx(tx, &model.Transaction{
				Type:        model.TxIssue,
				JobNo:       request.JobNo,
				Category:    r.material.Category,
				PaperCode:   r.material.PaperCode,
				ProductCode: r.material.ProductCode,
				IssuedQty:   r.qty,
				Note:        req.Note,
				CreatedBy:   actor,
			}); err != nil {
				return err
			}
		}

		// Cumulative ledger update. Re-read inside the transaction so two
		// overlapping issues against one request both land.
		fresh, err := s.requestRepo.FindByIDTx(tx, requestID)
		if err != nil {
			return err
		}
		newIssued = fresh.IssuedQty.Add(total)
		completed = newIssued.GreaterThanOrEqual(fresh.RequiredQty)
		if err := s.requestRepo.UpdateIssueTx(tx, requestID, newIssued, completed); err != nil {
			return err
		}

		// Job cross-reference. A missing job card is a recoverable
		// inconsistency, not an abort: stock and ledger updates stand.
		job, err := s.jobRepo.FindByJobNoTx(tx, request.JobNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn().
					Str("job_no", request.JobNo).
					Str("request_id", requestID.String()).
					Msg("issue: no job card matches the request's job number; allocation not recorded on job")
				return nil
			}
			return err
		}
		for _, r := range resolved {
			idx, err := s.jobRepo.NextAllocationIdxTx(tx, job.ID)
			if err != nil {
				return err
			}
			if err := s.jobRepo.CreateAllocationTx(tx, &model.JobAllocation{
				JobCardID:    job.ID,
				Idx:          idx,
				ProductCode:  r.material.ProductCode,
				PaperCode:    r.material.PaperCode,
				AllocatedQty: r.qty,
				Category:     r.material.Category,
			}); err != nil {
				return err
			}
		}
		return s.jobRepo.UpdateAllotStatusTx(tx, job.ID, model.AllotAllocated)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidate(ctx)

	// Low-stock alerts are advisory and best-effort, fire and forget.
	if s.dispatcher != nil {
		for _, r := range resolved {
			left := r.material.AvailableQty.Sub(r.qty)
			if r.material.Category == model.CategoryRaw && left.LessThanOrEqual(s.lowStockMark) {
				_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
					PaperCode:    r.material.PaperCode,
					ProductCode:  r.material.ProductCode,
					AvailableQty: left.StringFixed(2),
				})
			}
		}
	}

	remaining := request.RequiredQty.Sub(newIssued)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &dto.IssueResult{
		RequestID:    requestID.String(),
		JobNo:        request.JobNo,
		TotalIssued:  total,
		IssuedQty:    newIssued,
		RemainingQty: remaining,
		Completed:    completed,
	}, nil
}

func (s *allocationService) LoadRequest(ctx context.Context, id uuid.UUID) (*dto.MaterialRequestView, error) {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("material request not found")
	}
	return requestToView(r), nil
}

func requestToView(r *model.MaterialRequest) *dto.MaterialRequestView {
	return &dto.MaterialRequestView{
		ID:           r.ID.String(),
		JobNo:        r.JobNo,
		ProductCode:  r.ProductCode,
		MaterialType: r.MaterialType,
		PaperSize:    r.PaperSize,
		RequiredQty:  r.RequiredQty,
		IssuedQty:    r.IssuedQty,
		RemainingQty: r.Remaining(),
		Completed:    r.Completed,
	}
}
