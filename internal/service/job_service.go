package service

import (
	"context"
	"errors"
	"time"

	"jalaram/internal/dto"
	"jalaram/internal/model"
	"jalaram/internal/repository"

	"gorm.io/gorm"
)

// JobService manages job cards. Creating a card mints the job number and the
// paired material request in one transaction, so a card can never exist
// without its demand record (and vice versa).
type JobService interface {
	Create(ctx context.Context, actor string, req dto.CreateJobCardRequest) (*dto.JobCardResponse, error)
	GetByJobNo(ctx context.Context, jobNo string) (*dto.JobCardResponse, error)
	List(ctx context.Context, filter dto.JobFilter) (*dto.JobCardListResponse, error)
	Requests(ctx context.Context, jobNo string) ([]dto.MaterialRequestView, error)
}

type jobService struct {
	jobRepo     repository.JobRepository
	requestRepo repository.RequestRepository
	codes       CodeService
}

func NewJobService(jobRepo repository.JobRepository, requestRepo repository.RequestRepository, codes CodeService) JobService {
	return &jobService{jobRepo: jobRepo, requestRepo: requestRepo, codes: codes}
}

func (s *jobService) Create(ctx context.Context, actor string, req dto.CreateJobCardRequest) (*dto.JobCardResponse, error) {
	size, err := NormalizePaperSize(req.PaperSize)
	if err != nil {
		return nil, err
	}

	var job model.JobCard
	txErr := runTx(ctx, s.jobRepo.DB(), func(tx *gorm.DB) error {
		jobNo, err := s.codes.NextJobNoTx(tx, time.Now())
		if err != nil {
			return err
		}
		job = model.JobCard{
			JobNo:               jobNo,
			CustomerName:        req.CustomerName,
			LabelName:           req.LabelName,
			MaterialAllotStatus: model.AllotPending,
			CreatedBy:           actor,
		}
		if err := s.jobRepo.CreateTx(tx, &job); err != nil {
			return err
		}
		return s.requestRepo.CreateTx(tx, &model.MaterialRequest{
			JobNo:        jobNo,
			ProductCode:  req.ProductCode,
			MaterialType: req.MaterialType,
			PaperSize:    size,
			RequiredQty:  req.RequiredQty,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return jobToResponse(&job), nil
}

func (s *jobService) GetByJobNo(ctx context.Context, jobNo string) (*dto.JobCardResponse, error) {
	job, err := s.jobRepo.FindByJobNo(ctx, jobNo)
	if err != nil {
		return nil, errors.New("job card not found")
	}
	return jobToResponse(job), nil
}

func (s *jobService) List(ctx context.Context, filter dto.JobFilter) (*dto.JobCardListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.JobCardResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, *jobToResponse(&jobs[i]))
	}
	return &dto.JobCardListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *jobService) Requests(ctx context.Context, jobNo string) ([]dto.MaterialRequestView, error) {
	reqs, err := s.requestRepo.ListByJob(ctx, jobNo)
	if err != nil {
		return nil, err
	}
	views := make([]dto.MaterialRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, *requestToView(&reqs[i]))
	}
	return views, nil
}

func jobToResponse(j *model.JobCard) *dto.JobCardResponse {
	allocations := make([]dto.AllocationResponse, 0, len(j.Allocations))
	for _, a := range j.Allocations {
		allocations = append(allocations, dto.AllocationResponse{
			Idx:          a.Idx,
			ProductCode:  a.ProductCode,
			PaperCode:    a.PaperCode,
			AllocatedQty: a.AllocatedQty,
			Category:     a.Category,
		})
	}
	return &dto.JobCardResponse{
		ID:                  j.ID.String(),
		JobNo:               j.JobNo,
		CustomerName:        j.CustomerName,
		LabelName:           j.LabelName,
		MaterialAllotStatus: j.MaterialAllotStatus,
		Allocations:         allocations,
		CreatedBy:           j.CreatedBy,
		CreatedAt:           j.CreatedAt.Format(time.RFC3339),
	}
}
