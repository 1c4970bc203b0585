package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService manages the stock roll catalog: RAW purchase entry,
// candidate lookup for the issue screen, and the restricted edit path.
type CatalogService interface {
	CreateRawMaterial(ctx context.Context, actor string, req dto.CreateMaterialRequest) (*dto.MaterialResponse, error)
	FindCandidates(ctx context.Context, q dto.CandidateQuery) ([]dto.MaterialResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	List(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error)
	// Update edits a RAW roll nothing has been issued from. Issued or
	// LO/WIP rolls are immutable outside the allocation path.
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error)
}

type catalogService struct {
	repo  repository.MaterialRepository
	codes CodeService
	cache ReportCache
}

func NewCatalogService(repo repository.MaterialRepository, codes CodeService, cache ReportCache) CatalogService {
	return &catalogService{repo: repo, codes: codes, cache: cache}
}

// NormalizePaperSize renders a paper size as a canonical decimal string
// ("104.00" and "104" both store as "104"), so lookups are plain equality
// instead of dual-type comparisons.
func NormalizePaperSize(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid paper size %q", s)
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("paper size must be positive, got %q", s)
	}
	return d.String(), nil
}

func (s *catalogService) CreateRawMaterial(ctx context.Context, actor string, req dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	size, err := NormalizePaperSize(req.PaperSize)
	if err != nil {
		return nil, err
	}

	var m model.Material
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		code, err := s.codes.NextPaperCodeTx(tx, time.Now())
		if err != nil {
			return err
		}
		m = model.Material{
			PaperCode:    code,
			Category:     model.CategoryRaw,
			ProductCode:  req.ProductCode,
			MaterialType: req.MaterialType,
			PaperSize:    size,
			TotalQty:     req.TotalQty,
			AvailableQty: req.TotalQty,
			Active:       true,
			CreatedBy:    actor,
		}
		return s.repo.CreateTx(tx, &m)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidate(ctx)
	return materialToResponse(&m), nil
}

func (s *catalogService) FindCandidates(ctx context.Context, q dto.CandidateQuery) ([]dto.MaterialResponse, error) {
	size, err := NormalizePaperSize(q.PaperSize)
	if err != nil {
		return nil, err
	}
	materials, err := s.repo.FindCandidates(ctx, q.Category, q.ProductCode, q.MaterialType, size)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, *materialToResponse(&materials[i]))
	}
	return out, nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *catalogService) List(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	materials, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		items = append(items, *materialToResponse(&materials[i]))
	}
	return &dto.MaterialListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("material not found")
	}
	if m.Category != model.CategoryRaw {
		return nil, errors.New("only RAW materials can be edited")
	}
	if m.Issued() {
		return nil, errors.New("material has been issued against and can no longer be edited")
	}

	if req.ProductCode != nil {
		m.ProductCode = *req.ProductCode
	}
	if req.MaterialType != nil {
		m.MaterialType = *req.MaterialType
	}
	if req.PaperSize != nil {
		size, err := NormalizePaperSize(*req.PaperSize)
		if err != nil {
			return nil, err
		}
		m.PaperSize = size
	}
	if req.TotalQty != nil {
		// Un-issued: available tracks total.
		m.TotalQty = *req.TotalQty
		m.AvailableQty = *req.TotalQty
		m.Active = req.TotalQty.IsPositive()
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return materialToResponse(m), nil
}

func materialToResponse(m *model.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:           m.ID.String(),
		PaperCode:    m.PaperCode,
		Category:     m.Category,
		ProductCode:  m.ProductCode,
		MaterialType: m.MaterialType,
		PaperSize:    m.PaperSize,
		TotalQty:     m.TotalQty,
		AvailableQty: m.AvailableQty,
		Active:       m.Active,
		SourceJobNo:  m.SourceJobNo,
		SourceStage:  m.SourceStage,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}
