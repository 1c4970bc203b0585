package repository

import (
	"context"

	"jalaram/internal/dto"
	"jalaram/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository appends to and reads the stock movement ledger.
// There is deliberately no update or delete method: transactions are the
// audit trail the stock report replays.
type TransactionRepository interface {
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	// ListConsumptions returns every consumption event, oldest first. This
	// is the replay input for the stock report aggregator.
	ListConsumptions(ctx context.Context) ([]model.Transaction, error)
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.JobNo != "" {
		q = q.Where("job_no = ?", filter.JobNo)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.PaperCode != "" {
		// Matches the issued roll or membership in the consumed-codes list.
		q = q.Where("paper_code = ? OR paper_codes LIKE ?", filter.PaperCode, "%"+filter.PaperCode+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var txs []model.Transaction
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepo) ListConsumptions(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("type = ?", model.TxConsumption).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}
