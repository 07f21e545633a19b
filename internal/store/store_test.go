package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func build(job string, number int, status models.BuildStatus) models.Build {
	return models.Build{
		Job:       job,
		Number:    number,
		Status:    status,
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Hour),
	}
}

func result(tool string, buildNum int, fps ...uint64) *models.AnalysisResult {
	issues := make([]models.Issue, 0, len(fps))
	for _, fp := range fps {
		issues = append(issues, models.Issue{
			Fingerprint: models.Fingerprint(fp),
			Severity:    models.SeverityMedium,
			File:        "main.go",
			StartLine:   int(fp),
			Message:     "finding",
		})
	}
	return models.NewAnalysisResult(tool, buildNum, models.NewSnapshot(issues...))
}

func TestRecordAndLoadBuild(t *testing.T) {
	s := openTestStore(t)

	b := build("ci", 1, models.BuildSuccess)
	require.NoError(t, s.RecordBuild(b))

	got, err := s.Build("ci", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.Job, got.Job)
	assert.Equal(t, b.Number, got.Number)
	assert.Equal(t, b.Status, got.Status)
	assert.True(t, b.Timestamp.Equal(got.Timestamp))

	missing, err := s.Build("ci", 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordBuildIdempotentAndConflict(t *testing.T) {
	s := openTestStore(t)

	b := build("ci", 1, models.BuildSuccess)
	require.NoError(t, s.RecordBuild(b))
	require.NoError(t, s.RecordBuild(b), "identical re-record is a no-op")

	conflicting := b
	conflicting.Status = models.BuildFailure
	err := s.RecordBuild(conflicting)
	assert.True(t, errors.Is(err, ErrBuildConflict))
}

func TestLastCompletedBuildSkipsNotBuilt(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))
	require.NoError(t, s.RecordBuild(build("ci", 2, models.BuildFailure)))
	require.NoError(t, s.RecordBuild(build("ci", 3, models.BuildNotBuilt)))

	last, err := s.LastCompletedBuild("ci")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Number)
}

func TestLastCompletedBuildEmptyJob(t *testing.T) {
	s := openTestStore(t)

	last, err := s.LastCompletedBuild("empty")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestPreviousBuild(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))
	require.NoError(t, s.RecordBuild(build("ci", 2, models.BuildNotBuilt)))
	require.NoError(t, s.RecordBuild(build("ci", 4, models.BuildSuccess)))

	b4, err := s.Build("ci", 4)
	require.NoError(t, err)

	prev, err := s.PreviousBuild(b4)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 1, prev.Number, "not_built build 2 and missing 3 are skipped")

	first, err := s.PreviousBuild(prev)
	require.NoError(t, err)
	assert.Nil(t, first, "oldest build has no predecessor")
}

func TestSaveAndLoadResult(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))

	res := result("golint", 1, 10, 20, 30)
	require.NoError(t, s.SaveResult("ci", res))

	got, err := s.LoadResult("ci", 1, "golint")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, res.SnapshotHash, got.SnapshotHash)
	assert.Equal(t, 3, got.BySeverity[models.SeverityMedium])
	assert.True(t, got.Snapshot.Contains(models.Fingerprint(20)))
}

func TestLoadResultAbsent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))

	got, err := s.LoadResult("ci", 1, "golint")
	require.NoError(t, err)
	assert.Nil(t, got, "absence is a nil result, not an error")
}

func TestSaveResultImmutable(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))

	res := result("golint", 1, 10)
	require.NoError(t, s.SaveResult("ci", res))

	// Identical snapshot: silent no-op.
	require.NoError(t, s.SaveResult("ci", result("golint", 1, 10)))

	// Different snapshot for the same slot: rejected.
	err := s.SaveResult("ci", result("golint", 1, 10, 20))
	assert.True(t, errors.Is(err, ErrResultExists))
}

func TestToolsAndJobs(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordBuild(build("ci", 1, models.BuildSuccess)))
	require.NoError(t, s.SaveResult("ci", result("golint", 1, 1)))
	require.NoError(t, s.SaveResult("ci", result("checkstyle", 1, 2)))

	tools, err := s.Tools("ci")
	require.NoError(t, err)
	assert.Equal(t, []string{"checkstyle", "golint"}, tools)

	jobs, err := s.Jobs()
	require.NoError(t, err)
	assert.Equal(t, []string{"ci"}, jobs)
}

func TestBuildsAscending(t *testing.T) {
	s := openTestStore(t)
	for _, n := range []int{3, 1, 2} {
		require.NoError(t, s.RecordBuild(build("ci", n, models.BuildSuccess)))
	}

	builds, err := s.Builds("ci")
	require.NoError(t, err)
	require.Len(t, builds, 3)
	for i, b := range builds {
		assert.Equal(t, i+1, b.Number)
	}
}
