package metrics_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"threadsched/src/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJainIndex(t *testing.T) {
	assert.Equal(t, 1.0, metrics.JainIndex([]float64{2, 2, 2}))
	assert.InDelta(t, 0.25, metrics.JainIndex([]float64{1, 0, 0, 0}), 1e-9)
	assert.Equal(t, 0.0, metrics.JainIndex(nil))
	assert.Equal(t, 0.0, metrics.JainIndex([]float64{0, 0}))
}

// Test the job timings of a two-thread run:
// thread 1 released at 0 runs [0,4); thread 2 released at 1 runs [4,6).
func TestMetrics_Summary(t *testing.T) {
	m := metrics.New()

	m.OnRelease(1, 0, 4)
	m.OnRelease(2, 1, 2)
	m.OnContextSwitch(false)
	m.OnRun(1, 0, 4)
	m.OnComplete(1, 4)
	m.OnContextSwitch(false)
	m.OnRun(2, 4, 2)
	m.OnComplete(2, 6)
	m.OnIdle(2, false)

	jobs := m.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, 0, jobs[0].Response())
	assert.Equal(t, 4, jobs[0].Turnaround())
	assert.Equal(t, 3, jobs[1].Response())
	assert.Equal(t, 5, jobs[1].Turnaround())
	assert.Equal(t, 3, jobs[1].Waiting())

	s := m.Summary("default", 8)
	assert.Equal(t, 2, s.Jobs)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 2, s.ContextSwitches)
	assert.Equal(t, 0, s.Preemptions)
	assert.Equal(t, 6, s.BusyTime)
	assert.Equal(t, 2, s.IdleTime)
	assert.InDelta(t, 1.5, s.AvgResponse, 1e-9)
	assert.InDelta(t, 4.5, s.AvgTurnaround, 1e-9)
	assert.InDelta(t, 1.5, s.AvgWaiting, 1e-9)
	assert.InDelta(t, 75.0, s.UtilizationPct, 1e-9)
	assert.Equal(t, 0.0, s.IdleWithWorkPct)
	// normalized turnarounds 1 and 2.5
	assert.InDelta(t, 12.25/14.5, s.JainFairness, 1e-9)
}

func TestMetrics_MissesAndDrops(t *testing.T) {
	m := metrics.New()

	m.OnRelease(3, 0, 5)
	m.OnRun(3, 0, 2)
	m.OnDeadlineMiss(3)
	m.OnDrop(3)
	m.OnRelease(3, 10, 5)
	m.OnThrottle()
	m.OnIdle(3, true)

	jobs := m.Jobs()
	require.Len(t, jobs, 2)
	assert.True(t, jobs[0].Missed)
	assert.False(t, jobs[0].Completed())
	assert.Equal(t, 2, jobs[1].Job)
	assert.False(t, jobs[1].Started())

	s := m.Summary("dm", 13)
	assert.Equal(t, 1, s.DeadlineMisses)
	assert.Equal(t, 1, s.Throttles)
	assert.Equal(t, 0, s.Completed)
	assert.InDelta(t, 60.0, s.IdleWithWorkPct, 1e-9)
}

func TestMetrics_CSV(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.csv")
	summaryPath := filepath.Join(dir, "out", "summary.csv")

	m := metrics.New()
	require.NoError(t, m.InitTraceCSV(tracePath))
	m.RecordEvent(0, "dispatch", 1, 4)
	m.RecordEvent(4, "finish", 1, 0)
	require.NoError(t, m.Close())

	rows := readCSV(t, tracePath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"time", "event", "thread", "allocated"}, rows[0])
	assert.Equal(t, []string{"0", "dispatch", "1", "4"}, rows[1])

	s := m.Summary("hrrn", 4)
	require.NoError(t, metrics.WriteSummaryCSV(summaryPath, s))
	require.NoError(t, metrics.WriteSummaryCSV(summaryPath, s))

	rows = readCSV(t, summaryPath)
	require.Len(t, rows, 3)
	assert.Equal(t, "policy", rows[0][0])
	assert.Equal(t, "hrrn", rows[2][0])
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
