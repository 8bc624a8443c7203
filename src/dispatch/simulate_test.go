package dispatch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadsched/src/dispatch"
	"threadsched/src/model"
	"threadsched/src/sched"
)

const rrWorkload = `
policy: priority-rr
quantum: 2
threads:
  - id: 1
    processing: 3
  - id: 2
    processing: 2
`

// The workload names the policy and stays untouched by the run.
func TestSimulate_WorkloadPolicy(t *testing.T) {
	w, err := model.ParseWorkload([]byte(rrWorkload))
	require.NoError(t, err)

	report, err := dispatch.Simulate(context.Background(), w, dispatch.SimulateOptions{})
	require.NoError(t, err)

	assert.Equal(t, sched.PriorityRRPolicy, report.Policy)
	assert.Equal(t, 5, report.EndTime)
	assert.Equal(t, 1, report.Summary.Preemptions)
	assert.NotEmpty(t, report.Trace)

	assert.Equal(t, 0, w.Threads[0].RemainingTime)
	assert.Equal(t, 0, w.Threads[0].ArrivalTime)
}

// An explicit policy overrides the workload's and the trace can be left out.
func TestSimulate_PolicyOverride(t *testing.T) {
	w, err := model.ParseWorkload([]byte(rrWorkload))
	require.NoError(t, err)

	report, err := dispatch.Simulate(context.Background(), w, dispatch.SimulateOptions{
		Policy:    sched.DefaultPolicy,
		OmitTrace: true,
	})
	require.NoError(t, err)

	assert.Equal(t, sched.DefaultPolicy, report.Policy)
	assert.Equal(t, 0, report.Summary.Preemptions)
	assert.Nil(t, report.Trace)
}

func TestSimulate_UnknownPolicy(t *testing.T) {
	w, err := model.ParseWorkload([]byte(rrWorkload))
	require.NoError(t, err)

	_, err = dispatch.Simulate(context.Background(), w, dispatch.SimulateOptions{Policy: "lottery"})
	assert.ErrorIs(t, err, sched.ErrUnknownPolicy)
}

// Trace and summary CSV files are written next to the report.
func TestSimulate_CSVOutputs(t *testing.T) {
	w, err := model.ParseWorkload([]byte(rrWorkload))
	require.NoError(t, err)

	dir := t.TempDir()
	tracePath := filepath.Join(dir, "out", "trace.csv")
	summaryPath := filepath.Join(dir, "out", "summary.csv")

	report, err := dispatch.Simulate(context.Background(), w, dispatch.SimulateOptions{
		TraceCSV:   tracePath,
		SummaryCSV: summaryPath,
	})
	require.NoError(t, err)

	trace, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(trace)), "\n")
	assert.Equal(t, "time,event,thread,allocated", lines[0])
	assert.Len(t, lines, len(report.Trace)+1)
	assert.Equal(t, "0,release,1,0", lines[1])

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(summary)), "\n")
	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[1], "priority-rr,5,"))
}

// Malformed workloads are rejected before anything runs.
func TestSimulateYAML_InvalidWorkload(t *testing.T) {
	_, err := dispatch.SimulateYAML(context.Background(), []byte("threads: [{id: 1}]\n"), dispatch.SimulateOptions{})
	assert.ErrorIs(t, err, model.ErrInvalidWorkload)
}
