package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

type csvOut struct {
	f  *os.File
	w  *csv.Writer
	mu sync.Mutex
}

func (c *csvOut) open(path string, hdr []string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if st, _ := f.Stat(); st != nil && st.Size() == 0 {
		_ = w.Write(hdr)
		w.Flush()
	}
	c.f, c.w = f, w
	return nil
}

func (c *csvOut) write(row []string) {
	if c == nil || c.w == nil {
		return
	}
	c.mu.Lock()
	_ = c.w.Write(row)
	c.w.Flush()
	c.mu.Unlock()
}

func (c *csvOut) close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w != nil {
		c.w.Flush()
	}
	var err error
	if c.f != nil {
		err = c.f.Close()
	}
	c.f, c.w = nil, nil
	return err
}

func itoa(v int) string    { return strconv.Itoa(v) }
func f64(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

var traceHeader = []string{"time", "event", "thread", "allocated"}

var summaryHeader = []string{
	"policy", "end_time",
	"jobs", "completed", "deadline_misses", "throttles",
	"context_switches", "preemptions",
	"busy_time", "idle_time", "idle_with_work",
	"avg_response", "avg_turnaround", "avg_waiting",
	"utilization_pct", "idle_with_work_pct", "jain_fairness",
}

func (s Summary) csvRow() []string {
	return []string{
		s.Policy, itoa(s.EndTime),
		itoa(s.Jobs), itoa(s.Completed), itoa(s.DeadlineMisses), itoa(s.Throttles),
		itoa(s.ContextSwitches), itoa(s.Preemptions),
		itoa(s.BusyTime), itoa(s.IdleTime), itoa(s.IdleWithWork),
		f64(s.AvgResponse), f64(s.AvgTurnaround), f64(s.AvgWaiting),
		f64(s.UtilizationPct), f64(s.IdleWithWorkPct), f64(s.JainFairness),
	}
}

// Appends one summary row to the CSV file at path, writing the header first
// if the file is new.
func WriteSummaryCSV(path string, s Summary) error {
	var out csvOut
	if err := out.open(path, summaryHeader); err != nil {
		return err
	}
	out.write(s.csvRow())
	return out.close()
}
