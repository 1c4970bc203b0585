package repository

import (
	"context"
	"database/sql"

	"jalaram/internal/dto"
	"jalaram/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepository interface {
	CreateTx(tx *gorm.DB, j *model.JobCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobCard, error)
	FindByJobNo(ctx context.Context, jobNo string) (*model.JobCard, error)
	FindByJobNoTx(tx *gorm.DB, jobNo string) (*model.JobCard, error)
	List(ctx context.Context, filter dto.JobFilter) ([]model.JobCard, int64, error)

	// NextAllocationIdxTx returns the first free append position for a job's
	// allocation list. Safe to call repeatedly within one transaction: each
	// CreateAllocationTx makes the next call see one index further.
	NextAllocationIdxTx(tx *gorm.DB, jobCardID uuid.UUID) (int, error)
	CreateAllocationTx(tx *gorm.DB, a *model.JobAllocation) error
	UpdateAllotStatusTx(tx *gorm.DB, jobCardID uuid.UUID, status string) error

	// MaxJobSuffixTx seeds the job number sequence from legacy job numbers.
	MaxJobSuffixTx(tx *gorm.DB, prefix string) (int64, error)
	DB() *gorm.DB
}

type jobRepo struct{ db *gorm.DB }

func NewJobRepository(db *gorm.DB) JobRepository { return &jobRepo{db: db} }

func (r *jobRepo) CreateTx(tx *gorm.DB, j *model.JobCard) error {
	return tx.Create(j).Error
}

func (r *jobRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.JobCard, error) {
	var j model.JobCard
	err := r.db.WithContext(ctx).Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("idx ASC")
	}).First(&j, "id = ?", id).Error
	return &j, err
}

func (r *jobRepo) FindByJobNo(ctx context.Context, jobNo string) (*model.JobCard, error) {
	var j model.JobCard
	err := r.db.WithContext(ctx).Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("idx ASC")
	}).Where("job_no = ?", jobNo).First(&j).Error
	return &j, err
}

func (r *jobRepo) FindByJobNoTx(tx *gorm.DB, jobNo string) (*model.JobCard, error) {
	var j model.JobCard
	err := tx.Where("job_no = ?", jobNo).First(&j).Error
	return &j, err
}

func (r *jobRepo) List(ctx context.Context, filter dto.JobFilter) ([]model.JobCard, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.JobCard{})
	if filter.AllotStatus != "" {
		q = q.Where("material_allot_status = ?", filter.AllotStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var jobs []model.JobCard
	err := q.Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("idx ASC")
	}).Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepo) NextAllocationIdxTx(tx *gorm.DB, jobCardID uuid.UUID) (int, error) {
	var max sql.NullInt64
	err := tx.Model(&model.JobAllocation{}).
		Where("job_card_id = ?", jobCardID).
		Select("MAX(idx)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *jobRepo) CreateAllocationTx(tx *gorm.DB, a *model.JobAllocation) error {
	return tx.Create(a).Error
}

func (r *jobRepo) UpdateAllotStatusTx(tx *gorm.DB, jobCardID uuid.UUID, status string) error {
	return tx.Model(&model.JobCard{}).Where("id = ?", jobCardID).
		Update("material_allot_status", status).Error
}

func (r *jobRepo) MaxJobSuffixTx(tx *gorm.DB, prefix string) (int64, error) {
	var jobNos []string
	if err := tx.Model(&model.JobCard{}).
		Where("job_no LIKE ?", prefix+"%").
		Pluck("job_no", &jobNos).Error; err != nil {
		return 0, err
	}
	return maxSuffix(jobNos), nil
}

func (r *jobRepo) DB() *gorm.DB { return r.db }
