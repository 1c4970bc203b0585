package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation statuses on a job card.
const (
	AllotPending   = "Pending"
	AllotAllocated = "Allocated"
)

// JobCard is one production order, identified by its human-readable JobNo.
type JobCard struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobNo               string    `gorm:"uniqueIndex;not null"`
	CustomerName        string    `gorm:"not null"`
	LabelName           string    `gorm:"not null"`
	MaterialAllotStatus string    `gorm:"not null;default:'Pending'"`
	CreatedBy           string    `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Allocations []JobAllocation `gorm:"foreignKey:JobCardID"`
}

func (JobCard) TableName() string { return "job_cards" }

// JobAllocation is one issued batch recorded against a job card. Idx is the
// append position: rows are only ever added at max(idx)+1, never rewritten,
// so a job accumulates one row per allocation event.
type JobAllocation struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobCardID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_job_alloc_pos"`
	Idx          int             `gorm:"not null;uniqueIndex:idx_job_alloc_pos"`
	ProductCode  string          `gorm:"not null"`
	PaperCode    string          `gorm:"not null"`
	AllocatedQty decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category     string          `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time
}

func (JobAllocation) TableName() string { return "job_allocations" }
