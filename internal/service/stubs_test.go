package service

import (
	"context"
	"errors"
	"strings"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory MaterialRepository stub ────────────────────────────────────────

type stubMaterialRepo struct {
	materials map[uuid.UUID]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materials: make(map[uuid.UUID]*model.Material)}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	return r.CreateTx(nil, m)
}

func (r *stubMaterialRepo) CreateTx(_ *gorm.DB, m *model.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materials[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Material, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubMaterialRepo) FindByPaperCode(_ context.Context, code string) (*model.Material, error) {
	for _, m := range r.materials {
		if m.PaperCode == code {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMaterialRepo) FindCandidates(_ context.Context, category, productCode, materialType, paperSize string) ([]model.Material, error) {
	var out []model.Material
	for _, m := range r.materials {
		if m.Active && m.Category == category && m.ProductCode == productCode &&
			m.MaterialType == materialType && m.PaperSize == paperSize {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) List(_ context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error) {
	var out []model.Material
	for _, m := range r.materials {
		switch filter.Active {
		case "false":
			if m.Active {
				continue
			}
		case "all":
		default:
			if !m.Active {
				continue
			}
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMaterialRepo) ListAll(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *model.Material) error {
	if _, ok := r.materials[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.materials[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) DecrementAvailableTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	m, ok := r.materials[id]
	if !ok || m.AvailableQty.LessThan(qty) {
		return gorm.ErrRecordNotFound
	}
	m.AvailableQty = m.AvailableQty.Sub(qty)
	m.Active = m.AvailableQty.IsPositive()
	return nil
}

func (r *stubMaterialRepo) MaxCodeSuffixTx(_ *gorm.DB, prefix string) (int64, error) {
	var max int64
	for _, m := range r.materials {
		if !strings.HasPrefix(m.PaperCode, prefix) {
			continue
		}
		if n := suffixOf(m.PaperCode); n > max {
			max = n
		}
	}
	return max, nil
}

func (r *stubMaterialRepo) DB() *gorm.DB { return nil }

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

// ── In-memory RequestRepository stub ─────────────────────────────────────────

type stubRequestRepo struct {
	requests map[uuid.UUID]*model.MaterialRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[uuid.UUID]*model.MaterialRequest)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *model.MaterialRequest) error {
	return r.CreateTx(nil, req)
}

func (r *stubRequestRepo) CreateTx(_ *gorm.DB, req *model.MaterialRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.requests[req.ID] = req
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MaterialRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *req
	return &copy, nil
}

func (r *stubRequestRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.MaterialRequest, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubRequestRepo) ListByJob(_ context.Context, jobNo string) ([]model.MaterialRequest, error) {
	var out []model.MaterialRequest
	for _, req := range r.requests {
		if req.JobNo == jobNo {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) UpdateIssueTx(_ *gorm.DB, id uuid.UUID, issued decimal.Decimal, completed bool) error {
	req, ok := r.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.IssuedQty = issued
	req.Completed = completed
	return nil
}

func (r *stubRequestRepo) DB() *gorm.DB { return nil }

var _ repository.RequestRepository = (*stubRequestRepo)(nil)

// ── In-memory TransactionRepository stub ─────────────────────────────────────

type stubTransactionRepo struct {
	txs []model.Transaction
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txs = append(r.txs, *t)
	return nil
}

func (r *stubTransactionRepo) List(_ context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if filter.JobNo != "" && t.JobNo != filter.JobNo {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.PaperCode != "" && !t.Touches(filter.PaperCode) {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListConsumptions(_ context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if t.Type == model.TxConsumption {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

// ── In-memory JobRepository stub ─────────────────────────────────────────────

type stubJobRepo struct {
	jobs        map[uuid.UUID]*model.JobCard
	allocations []model.JobAllocation
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[uuid.UUID]*model.JobCard)}
}

func (r *stubJobRepo) CreateTx(_ *gorm.DB, j *model.JobCard) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id uuid.UUID) (*model.JobCard, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withAllocations(j), nil
}

func (r *stubJobRepo) FindByJobNo(_ context.Context, jobNo string) (*model.JobCard, error) {
	for _, j := range r.jobs {
		if j.JobNo == jobNo {
			return r.withAllocations(j), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubJobRepo) FindByJobNoTx(_ *gorm.DB, jobNo string) (*model.JobCard, error) {
	return r.FindByJobNo(context.Background(), jobNo)
}

func (r *stubJobRepo) withAllocations(j *model.JobCard) *model.JobCard {
	copy := *j
	copy.Allocations = nil
	for _, a := range r.allocations {
		if a.JobCardID == j.ID {
			copy.Allocations = append(copy.Allocations, a)
		}
	}
	return &copy
}

func (r *stubJobRepo) List(_ context.Context, filter dto.JobFilter) ([]model.JobCard, int64, error) {
	var out []model.JobCard
	for _, j := range r.jobs {
		if filter.AllotStatus != "" && j.MaterialAllotStatus != filter.AllotStatus {
			continue
		}
		out = append(out, *r.withAllocations(j))
	}
	return out, int64(len(out)), nil
}

func (r *stubJobRepo) NextAllocationIdxTx(_ *gorm.DB, jobCardID uuid.UUID) (int, error) {
	next := 0
	for _, a := range r.allocations {
		if a.JobCardID == jobCardID && a.Idx >= next {
			next = a.Idx + 1
		}
	}
	return next, nil
}

func (r *stubJobRepo) CreateAllocationTx(_ *gorm.DB, a *model.JobAllocation) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	for _, existing := range r.allocations {
		if existing.JobCardID == a.JobCardID && existing.Idx == a.Idx {
			return errors.New("duplicate allocation index")
		}
	}
	r.allocations = append(r.allocations, *a)
	return nil
}

func (r *stubJobRepo) UpdateAllotStatusTx(_ *gorm.DB, jobCardID uuid.UUID, status string) error {
	j, ok := r.jobs[jobCardID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	j.MaterialAllotStatus = status
	return nil
}

func (r *stubJobRepo) MaxJobSuffixTx(_ *gorm.DB, prefix string) (int64, error) {
	var max int64
	for _, j := range r.jobs {
		if !strings.HasPrefix(j.JobNo, prefix) {
			continue
		}
		if n := suffixOf(j.JobNo); n > max {
			max = n
		}
	}
	return max, nil
}

func (r *stubJobRepo) DB() *gorm.DB { return nil }

var _ repository.JobRepository = (*stubJobRepo)(nil)

// ── In-memory SequenceRepository stub ────────────────────────────────────────

type stubSequenceRepo struct {
	counters map[string]int64
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[string]int64)}
}

func (r *stubSequenceRepo) NextTx(tx *gorm.DB, prefix string, seed func(tx *gorm.DB) (int64, error)) (int64, error) {
	last, ok := r.counters[prefix]
	if !ok && seed != nil {
		var err error
		if last, err = seed(tx); err != nil {
			return 0, err
		}
	}
	r.counters[prefix] = last + 1
	return r.counters[prefix], nil
}

var _ repository.SequenceRepository = (*stubSequenceRepo)(nil)

// suffixOf mirrors the legacy-code parse: numeric tail after the last '-',
// zero when unparseable.
func suffixOf(code string) int64 {
	i := strings.LastIndex(code, "-")
	if i < 0 || i == len(code)-1 {
		return 0
	}
	var n int64
	for _, ch := range code[i+1:] {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int64(ch-'0')
	}
	return n
}
