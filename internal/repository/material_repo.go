package repository

import (
	"context"

	"jalaram/internal/dto"
	"jalaram/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialRepository defines the data access contract for stock rolls.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	CreateTx(tx *gorm.DB, m *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Material, error)
	FindByPaperCode(ctx context.Context, code string) (*model.Material, error)
	// FindCandidates returns active rolls matching all four issue-screen
	// attributes. PaperSize is stored canonically, so this is plain equality.
	FindCandidates(ctx context.Context, category, productCode, materialType, paperSize string) ([]model.Material, error)
	List(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error)
	ListAll(ctx context.Context) ([]model.Material, error)
	Update(ctx context.Context, m *model.Material) error

	// DecrementAvailableTx conditionally takes qty meters from a roll and
	// recomputes active. Returns gorm.ErrRecordNotFound when the roll is gone
	// or no longer holds qty meters (concurrent issue); callers must treat
	// that as an abort signal for the surrounding transaction.
	DecrementAvailableTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error

	// MaxCodeSuffixTx scans codes starting with prefix and returns the
	// largest numeric suffix after the last '-'; unparseable suffixes are
	// ignored. Used once per prefix to seed the code sequence.
	MaxCodeSuffixTx(tx *gorm.DB, prefix string) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) CreateTx(tx *gorm.DB, m *model.Material) error {
	return tx.Create(m).Error
}

func (r *materialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *materialRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := tx.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *materialRepo) FindByPaperCode(ctx context.Context, code string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).Where("paper_code = ?", code).First(&m).Error
	return &m, err
}

func (r *materialRepo) FindCandidates(ctx context.Context, category, productCode, materialType, paperSize string) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).
		Where("active = true AND category = ? AND product_code = ? AND material_type = ? AND paper_size = ?",
			category, productCode, materialType, paperSize).
		Order("created_at ASC").
		Find(&materials).Error
	return materials, err
}

func (r *materialRepo) List(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error) {
	var materials []model.Material
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Material{})

	// Active filter: "false" = depleted, "all" = everything, default active-only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.JobNo != "" {
		q = q.Where("source_job_no = ?", filter.JobNo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&materials).Error
	return materials, total, err
}

func (r *materialRepo) ListAll(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *materialRepo) DecrementAvailableTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&model.Material{}).
		Where("id = ? AND available_qty >= ?", id, qty).
		Updates(map[string]interface{}{
			"available_qty": gorm.Expr("available_qty - ?", qty),
			"active":        gorm.Expr("available_qty - ? > 0", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materialRepo) MaxCodeSuffixTx(tx *gorm.DB, prefix string) (int64, error) {
	var codes []string
	if err := tx.Model(&model.Material{}).
		Where("paper_code LIKE ?", prefix+"%").
		Pluck("paper_code", &codes).Error; err != nil {
		return 0, err
	}
	return maxSuffix(codes), nil
}

func (r *materialRepo) DB() *gorm.DB { return r.db }

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit
}
