package service

import (
	"fmt"
	"time"

	"jalaram/internal/repository"

	"gorm.io/gorm"
)

// CodeService mints the human-readable codes used across the factory:
// paper codes for stock rolls and job numbers for job cards. Every code is
// "{prefix}{zero-padded counter}" where the counter comes from a per-prefix
// sequence row locked inside the caller's transaction, so a failed
// transaction never burns a code and concurrent mints never collide.
type CodeService interface {
	// NextPaperCodeTx mints e.g. "JLR-26-007" (company, two-digit year,
	// three-digit counter).
	NextPaperCodeTx(tx *gorm.DB, now time.Time) (string, error)
	// NextJobNoTx mints e.g. "0826-03" (month+year, two-digit counter).
	NextJobNoTx(tx *gorm.DB, now time.Time) (string, error)
}

type codeService struct {
	seqRepo      repository.SequenceRepository
	materialRepo repository.MaterialRepository
	jobRepo      repository.JobRepository
	companyCode  string
}

func NewCodeService(
	seqRepo repository.SequenceRepository,
	materialRepo repository.MaterialRepository,
	jobRepo repository.JobRepository,
	companyCode string,
) CodeService {
	return &codeService{
		seqRepo:      seqRepo,
		materialRepo: materialRepo,
		jobRepo:      jobRepo,
		companyCode:  companyCode,
	}
}

func (s *codeService) NextPaperCodeTx(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%02d-", s.companyCode, now.Year()%100)
	n, err := s.seqRepo.NextTx(tx, prefix, func(tx *gorm.DB) (int64, error) {
		// First mint for this prefix: seed from codes already in the catalog
		// so legacy hand-entered rolls are never re-minted.
		return s.materialRepo.MaxCodeSuffixTx(tx, prefix)
	})
	if err != nil {
		return "", fmt.Errorf("next paper code for %q: %w", prefix, err)
	}
	return fmt.Sprintf("%s%03d", prefix, n), nil
}

func (s *codeService) NextJobNoTx(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%02d%02d-", int(now.Month()), now.Year()%100)
	n, err := s.seqRepo.NextTx(tx, prefix, func(tx *gorm.DB) (int64, error) {
		return s.jobRepo.MaxJobSuffixTx(tx, prefix)
	})
	if err != nil {
		return "", fmt.Errorf("next job number for %q: %w", prefix, err)
	}
	return fmt.Sprintf("%s%02d", prefix, n), nil
}
