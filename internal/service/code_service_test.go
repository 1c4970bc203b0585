package service

import (
	"testing"
	"time"

	"jalaram/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodeFixture() (CodeService, *stubMaterialRepo, *stubJobRepo) {
	materials := newStubMaterialRepo()
	jobs := newStubJobRepo()
	svc := NewCodeService(newStubSequenceRepo(), materials, jobs, "JLR")
	return svc, materials, jobs
}

var aug2026 = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

func TestPaperCodeFormatAndMonotonicity(t *testing.T) {
	svc, _, _ := newCodeFixture()

	first, err := svc.NextPaperCodeTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "JLR-26-001", first)

	second, err := svc.NextPaperCodeTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "JLR-26-002", second)
}

func TestPaperCodeSeedsFromLegacyCatalog(t *testing.T) {
	svc, materials, _ := newCodeFixture()
	for _, code := range []string{"JLR-26-003", "JLR-26-017", "JLR-25-099"} {
		materials.materials[uuid.New()] = &model.Material{ID: uuid.New(), PaperCode: code}
	}

	code, err := svc.NextPaperCodeTx(nil, aug2026)
	require.NoError(t, err)
	// Continues past the largest existing suffix for this year's prefix;
	// last year's 099 belongs to a different prefix and is ignored.
	assert.Equal(t, "JLR-26-018", code)
}

func TestPaperCodeIgnoresUnparseableSuffixes(t *testing.T) {
	svc, materials, _ := newCodeFixture()
	for _, code := range []string{"JLR-26-005", "JLR-26-OLD", "JLR-26-"} {
		materials.materials[uuid.New()] = &model.Material{ID: uuid.New(), PaperCode: code}
	}

	code, err := svc.NextPaperCodeTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "JLR-26-006", code)
}

func TestJobNumberFormatAndSeed(t *testing.T) {
	svc, _, jobs := newCodeFixture()
	jobs.jobs[uuid.New()] = &model.JobCard{ID: uuid.New(), JobNo: "0826-04"}
	jobs.jobs[uuid.New()] = &model.JobCard{ID: uuid.New(), JobNo: "0726-11"} // July, other prefix

	jobNo, err := svc.NextJobNoTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "0826-05", jobNo)

	next, err := svc.NextJobNoTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "0826-06", next)
}

func TestJobNumberRollsOverByMonth(t *testing.T) {
	svc, _, _ := newCodeFixture()

	aug, err := svc.NextJobNoTx(nil, aug2026)
	require.NoError(t, err)
	assert.Equal(t, "0826-01", aug)

	sep, err := svc.NextJobNoTx(nil, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "0926-01", sep)
}
