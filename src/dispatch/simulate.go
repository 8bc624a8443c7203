package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"threadsched/src/metrics"
	"threadsched/src/model"
	"threadsched/src/sched"
)

type SimulateOptions struct {
	// Overrides the policy named in the workload when set.
	Policy string
	Logger *slog.Logger
	// Optional CSV outputs.
	TraceCSV   string
	SummaryCSV string
	// Leaves the per-event trace out of the report.
	OmitTrace bool
}

// Runs a workload to completion on a fresh dispatcher. The workload itself
// is not modified.
func Simulate(ctx context.Context, w *model.Workload, opts SimulateOptions) (report *Report, err error) {
	name := opts.Policy
	if name == "" {
		name = w.Policy
	}
	policy, err := sched.New(name)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	if opts.TraceCSV != "" {
		if err := m.InitTraceCSV(opts.TraceCSV); err != nil {
			return nil, err
		}
	}
	defer func() {
		err = errors.Join(err, m.Close())
	}()

	dopts := []Option{WithMetrics(m)}
	if opts.Logger != nil {
		dopts = append(dopts, WithLogger(opts.Logger))
	}
	d := New(policy, ConfigFromWorkload(w), dopts...)
	if err := d.Load(w.CloneThreads()); err != nil {
		return nil, err
	}

	if report, err = d.Run(ctx); err != nil {
		return nil, err
	}
	if opts.OmitTrace {
		report.Trace = nil
	}
	if opts.SummaryCSV != "" {
		if err := metrics.WriteSummaryCSV(opts.SummaryCSV, report.Summary); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Parses a YAML workload and simulates it.
func SimulateYAML(ctx context.Context, data []byte, opts SimulateOptions) (*Report, error) {
	w, err := model.ParseWorkload(data)
	if err != nil {
		return nil, err
	}
	return Simulate(ctx, w, opts)
}
