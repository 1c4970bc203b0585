package repository

import (
	"context"

	"jalaram/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestRepository is the only write path to material requests; the issued
// counter is mutated exclusively through UpdateIssueTx inside the allocation
// transaction, which keeps the ledger free of divergent updates.
type RequestRepository interface {
	Create(ctx context.Context, r *model.MaterialRequest) error
	CreateTx(tx *gorm.DB, r *model.MaterialRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequest, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MaterialRequest, error)
	ListByJob(ctx context.Context, jobNo string) ([]model.MaterialRequest, error)
	UpdateIssueTx(tx *gorm.DB, id uuid.UUID, issued decimal.Decimal, completed bool) error
	DB() *gorm.DB
}

type requestRepo struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) RequestRepository { return &requestRepo{db: db} }

func (r *requestRepo) Create(ctx context.Context, req *model.MaterialRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) CreateTx(tx *gorm.DB, req *model.MaterialRequest) error {
	return tx.Create(req).Error
}

func (r *requestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequest, error) {
	var req model.MaterialRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *requestRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MaterialRequest, error) {
	var req model.MaterialRequest
	err := tx.First(&req, "id = ?", id).Error
	return &req, err
}

func (r *requestRepo) ListByJob(ctx context.Context, jobNo string) ([]model.MaterialRequest, error) {
	var reqs []model.MaterialRequest
	err := r.db.WithContext(ctx).Where("job_no = ?", jobNo).Order("created_at ASC").Find(&reqs).Error
	return reqs, err
}

func (r *requestRepo) UpdateIssueTx(tx *gorm.DB, id uuid.UUID, issued decimal.Decimal, completed bool) error {
	return tx.Model(&model.MaterialRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"issued_qty": issued,
		"completed":  completed,
	}).Error
}

func (r *requestRepo) DB() *gorm.DB { return r.db }
