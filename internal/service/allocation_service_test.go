package service

import (
	"context"
	"testing"

	"jalaram/internal/dto"
	"jalaram/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

type allocationFixture struct {
	materials *stubMaterialRepo
	requests  *stubRequestRepo
	txs       *stubTransactionRepo
	jobs      *stubJobRepo
	svc       AllocationService
}

func newAllocationFixture() *allocationFixture {
	f := &allocationFixture{
		materials: newStubMaterialRepo(),
		requests:  newStubRequestRepo(),
		txs:       newStubTransactionRepo(),
		jobs:      newStubJobRepo(),
	}
	f.svc = NewAllocationService(f.materials, f.requests, f.txs, f.jobs, nil, NoopReportCache{}, d(100))
	return f
}

func (f *allocationFixture) seedRoll(code string, total float64) *model.Material {
	m := &model.Material{
		ID:           uuid.New(),
		PaperCode:    code,
		Category:     model.CategoryRaw,
		ProductCode:  "PC-01",
		MaterialType: "Chromo",
		PaperSize:    "104",
		TotalQty:     d(total),
		AvailableQty: d(total),
		Active:       true,
		CreatedBy:    "Admin",
	}
	f.materials.materials[m.ID] = m
	return m
}

func (f *allocationFixture) seedRequest(jobNo string, required float64) *model.MaterialRequest {
	r := &model.MaterialRequest{
		ID:           uuid.New(),
		JobNo:        jobNo,
		ProductCode:  "PC-01",
		MaterialType: "Chromo",
		PaperSize:    "104",
		RequiredQty:  d(required),
	}
	f.requests.requests[r.ID] = r
	return r
}

func (f *allocationFixture) seedJob(jobNo string) *model.JobCard {
	j := &model.JobCard{
		ID:                  uuid.New(),
		JobNo:               jobNo,
		CustomerName:        "Acme Labels",
		LabelName:           "Front Sticker",
		MaterialAllotStatus: model.AllotPending,
		CreatedBy:           "Admin",
	}
	f.jobs.jobs[j.ID] = j
	return j
}

func TestIssueDecrementsStockAndRecordsLedger(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	req := f.seedRequest("0826-01", 200)
	f.seedJob("0826-01")

	res, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(120)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "380", f.materials.materials[roll.ID].AvailableQty.String())
	assert.True(t, f.materials.materials[roll.ID].Active)

	assert.Equal(t, "120", res.TotalIssued.String())
	assert.Equal(t, "120", res.IssuedQty.String())
	assert.Equal(t, "80", res.RemainingQty.String())
	assert.False(t, res.Completed)

	// One append-only issue row, stamped with the actor.
	require.Len(t, f.txs.txs, 1)
	assert.Equal(t, model.TxIssue, f.txs.txs[0].Type)
	assert.Equal(t, "JLR-26-001", f.txs.txs[0].PaperCode)
	assert.Equal(t, "120", f.txs.txs[0].IssuedQty.String())
	assert.Equal(t, "Kishan", f.txs.txs[0].CreatedBy)
}

func TestIssueMultipleSelectionsAppendConsecutiveAllocations(t *testing.T) {
	f := newAllocationFixture()
	rollA := f.seedRoll("JLR-26-001", 300)
	rollB := f.seedRoll("JLR-26-002", 300)
	req := f.seedRequest("0826-01", 600)
	job := f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID: req.ID.String(),
		Selections: []dto.IssueSelection{
			{MaterialID: rollA.ID.String(), Quantity: d(100)},
			{MaterialID: rollB.ID.String(), Quantity: d(150)},
		},
	})
	require.NoError(t, err)

	// Second issue appends after the first batch.
	_, err = f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: rollA.ID.String(), Quantity: d(50)}},
	})
	require.NoError(t, err)

	loaded, err := f.jobs.FindByJobNo(context.Background(), "0826-01")
	require.NoError(t, err)
	require.Len(t, loaded.Allocations, 3)
	for i, a := range loaded.Allocations {
		assert.Equal(t, i, a.Idx)
	}
	assert.Equal(t, model.AllotAllocated, f.jobs.jobs[job.ID].MaterialAllotStatus)
}

func TestIssueAccumulatesAcrossPartialIssues(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	res1, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(30)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "30", res1.IssuedQty.String())
	assert.Equal(t, "70", res1.RemainingQty.String())
	assert.False(t, res1.Completed)

	res2, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(70)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "100", res2.IssuedQty.String())
	assert.Equal(t, "0", res2.RemainingQty.String())
	assert.True(t, res2.Completed)
}

func TestIssueRejectedWhenNothingRemains(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(100)}},
	})
	require.NoError(t, err)

	_, err = f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(10)}},
	})
	assert.ErrorContains(t, err, "already fulfilled")

	// The rejected attempt wrote nothing.
	assert.Len(t, f.txs.txs, 1)
	assert.Equal(t, "400", f.materials.materials[roll.ID].AvailableQty.String())
}

func TestIssueFinalOvershootClampsRemaining(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	// 90 issued, 10 remaining; the final batch of 25 is allowed and completes.
	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(90)}},
	})
	require.NoError(t, err)

	res, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(25)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "115", res.IssuedQty.String())
	assert.Equal(t, "0", res.RemainingQty.String())
	assert.True(t, res.Completed)
}

func TestIssueInsufficientStockRejected(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 50)
	req := f.seedRequest("0826-01", 200)
	f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(80)}},
	})
	assert.ErrorContains(t, err, "insufficient stock")
	assert.Empty(t, f.txs.txs)
	assert.Equal(t, "50", f.materials.materials[roll.ID].AvailableQty.String())
}

func TestIssueAttributeMismatchRejected(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	roll.PaperSize = "82.5"
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(10)}},
	})
	assert.ErrorContains(t, err, "does not match")
}

func TestIssueDepletedRollRejected(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	roll.AvailableQty = decimal.Zero
	roll.Active = false
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(10)}},
	})
	assert.ErrorContains(t, err, "depleted")
}

func TestIssueExactDepletionDeactivatesRoll(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 100)
	req := f.seedRequest("0826-01", 100)
	f.seedJob("0826-01")

	_, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(100)}},
	})
	require.NoError(t, err)

	assert.True(t, f.materials.materials[roll.ID].AvailableQty.IsZero())
	assert.False(t, f.materials.materials[roll.ID].Active)

	// Depleted roll no longer appears among issue candidates.
	candidates, err := f.materials.FindCandidates(context.Background(),
		model.CategoryRaw, "PC-01", "Chromo", "104")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestIssueWithoutJobCardStillUpdatesLedger(t *testing.T) {
	f := newAllocationFixture()
	roll := f.seedRoll("JLR-26-001", 500)
	req := f.seedRequest("0826-99", 100) // no job card seeded

	res, err := f.svc.Issue(context.Background(), "Kishan", dto.IssueRequest{
		RequestID:  req.ID.String(),
		Selections: []dto.IssueSelection{{MaterialID: roll.ID.String(), Quantity: d(40)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "40", res.IssuedQty.String())
	assert.Equal(t, "460", f.materials.materials[roll.ID].AvailableQty.String())
	assert.Empty(t, f.jobs.allocations)
}

func TestLoadRequestReportsDerivedRemaining(t *testing.T) {
	f := newAllocationFixture()
	req := f.seedRequest("0826-01", 100)
	req.IssuedQty = d(130)
	req.Completed = true

	view, err := f.svc.LoadRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", view.RemainingQty.String()) // clamped, never negative
	assert.True(t, view.Completed)
}
