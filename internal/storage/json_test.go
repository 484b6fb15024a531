package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fte/internal/config"
	"fte/internal/domain"
)

func newTestStorage(t *testing.T) (*JSONStorage, *config.Config) {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg), cfg
}

func sampleSummary() domain.RunSummary {
	return domain.RunSummary{
		ID:        "run-1",
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Selected:  4,
		Results: []domain.RunResult{
			{Test: domain.TestRef{Path: "/w/test/A.t.sol", Name: "test_pass"}, Status: domain.StatusPassed},
			{Test: domain.TestRef{Path: "/w/test/A.t.sol", Name: "test_fail"}, Status: domain.StatusFailed, Message: "assertion failed", Stderr: "assertion failed"},
			{Test: domain.TestRef{Name: "test_missing"}, Status: domain.StatusNotFound, Message: "not resolved"},
		},
		Cancelled: true,
	}
}

func TestBuildOutput(t *testing.T) {
	output := BuildOutput(sampleSummary())

	assert.Equal(t, "run-1", output.Meta.RunID)
	assert.Equal(t, 4, output.Meta.SelectedTests)
	assert.Equal(t, 1, output.Meta.PassedTests)
	assert.Equal(t, 1, output.Meta.FailedTests)
	assert.Equal(t, 1, output.Meta.NotFoundTests)
	assert.Equal(t, 1, output.Meta.PendingTests)
	assert.True(t, output.Meta.Cancelled)
	assert.Equal(t, 1.5, output.Meta.DurationSeconds)
	assert.Equal(t, "2024-05-01T12:00:00Z", output.Meta.Timestamp)
	assert.Len(t, output.Results, 3)

	require.Len(t, output.Details, 2)
	assert.Equal(t, "test_fail", output.Details[0].TestName)
	assert.Equal(t, "/w/test/A.t.sol", output.Details[0].FilePath)
	assert.Equal(t, domain.StatusFailed, output.Details[0].Status)
	assert.Equal(t, "assertion failed", output.Details[0].Stderr)
	assert.Equal(t, domain.StatusNotFound, output.Details[1].Status)
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	st, cfg := newTestStorage(t)

	require.NoError(t, st.Save(sampleSummary()))

	_, err := os.Stat(filepath.Join(cfg.ProjectPath, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	require.NoError(t, err)

	output, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-1", output.Meta.RunID)
	require.Len(t, output.Results, 3)
	assert.Equal(t, domain.StatusFailed, output.Results[1].Status)
	assert.Empty(t, output.Results[1].Stderr, "raw output only lives in details")
	require.Len(t, output.Details, 2)
	assert.Equal(t, "assertion failed", output.Details[0].Message)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	st, _ := newTestStorage(t)

	_, err := st.Load()
	assert.Error(t, err)

	_, err = st.FailedTests()
	assert.Error(t, err)
}

func TestJSONStorage_FailedTests(t *testing.T) {
	st, _ := newTestStorage(t)
	require.NoError(t, st.Save(sampleSummary()))

	refs, err := st.FailedTests()
	require.NoError(t, err)
	assert.Equal(t, []domain.TestRef{
		{Path: "/w/test/A.t.sol", Name: "test_fail"},
		{Name: "test_missing"},
	}, refs)

	// resolved failures are not rerun
	output, err := st.Load()
	require.NoError(t, err)
	output.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(output))

	refs, err = st.FailedTests()
	require.NoError(t, err)
	assert.Equal(t, []domain.TestRef{{Name: "test_missing"}}, refs)
}

func TestJSONStorage_LastStatuses(t *testing.T) {
	st, _ := newTestStorage(t)

	_, err := st.LastStatuses()
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, st.Save(sampleSummary()))

	statuses, err := st.LastStatuses()
	require.NoError(t, err)
	assert.Equal(t, map[domain.TestRef]domain.RunStatus{
		{Path: "/w/test/A.t.sol", Name: "test_pass"}: domain.StatusPassed,
		{Path: "/w/test/A.t.sol", Name: "test_fail"}: domain.StatusFailed,
		{Name: "test_missing"}:                       domain.StatusNotFound,
	}, statuses)
}

func TestJSONStorage_LoadCorrupt(t *testing.T) {
	st, cfg := newTestStorage(t)
	path := cfg.GetOutputPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := st.Load()
	assert.ErrorContains(t, err, "parse results")
}
