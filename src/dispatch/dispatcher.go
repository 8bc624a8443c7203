package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"threadsched/src/logging"
	"threadsched/src/metrics"
	"threadsched/src/model"
	"threadsched/src/sched"
)

var (
	ErrNotLoaded       = errors.New("no threads loaded")
	ErrAlreadyLoaded   = errors.New("threads already loaded")
	ErrInvalidDecision = errors.New("invalid scheduling decision")
	ErrQueueFull       = errors.New("queue full")
)

type Config struct {
	TimeQuantum int
	// The run stops once the clock reaches it.
	Horizon    int
	MissPolicy model.MissPolicy
}

func ConfigFromWorkload(w *model.Workload) Config {
	return Config{
		TimeQuantum: w.TimeQuantum,
		Horizon:     w.Horizon,
		MissPolicy:  w.MissPolicy,
	}
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// Outcome of a run.
type Report struct {
	Policy     string            `yaml:"policy" json:"policy"`
	EndTime    int               `yaml:"end_time" json:"end_time"`
	Halted     bool              `yaml:"halted,omitempty" json:"halted,omitempty"`
	HaltReason string            `yaml:"halt_reason,omitempty" json:"halt_reason,omitempty"`
	Summary    metrics.Summary   `yaml:"summary" json:"summary"`
	Jobs       []metrics.JobStat `yaml:"jobs" json:"jobs"`
	Trace      []Event           `yaml:"trace,omitempty" json:"trace,omitempty"`
}

// Simulates a single CPU driven by a scheduling policy.
//
// The dispatcher owns the run queue, the release queue and every thread in
// them. At each rescheduling point it releases due threads, replenishes CBS
// servers, asks the policy for a decision and applies it. A Dispatcher is
// not safe for concurrent use.
type Dispatcher struct {
	policy  sched.Policy
	cfg     Config
	budgets bool

	logger  *slog.Logger
	metrics *metrics.Metrics

	runQueue *runQueue
	releases *releaseQueue
	clock    int
	// Thread that ran the last slice, nil after it left the CPU for good.
	last     *model.Thread
	released map[int]int // thread ID -> jobs released

	trace      []Event
	loaded     bool
	halted     bool
	haltReason string
}

func New(policy sched.Policy, cfg Config, opts ...Option) *Dispatcher {
	if cfg.TimeQuantum < 1 {
		cfg.TimeQuantum = model.DefaultTimeQuantum
	}
	if cfg.Horizon < 1 {
		cfg.Horizon = model.DefaultHorizon
	}
	if cfg.MissPolicy == "" {
		cfg.MissPolicy = model.MissAbort
	}

	d := &Dispatcher{
		policy:   policy,
		cfg:      cfg,
		logger:   logging.Discard(),
		released: map[int]int{},
	}
	if be, ok := policy.(sched.BudgetEnforcer); ok {
		d.budgets = be.EnforcesBudgets()
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	return d
}

// Places every thread in the release queue at its arrival time. The
// dispatcher takes ownership of the threads.
func (d *Dispatcher) Load(threads []*model.Thread) error {
	if d.loaded {
		return ErrAlreadyLoaded
	}

	seen := make(map[int]bool, len(threads))
	for _, t := range threads {
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate thread id %d", model.ErrInvalidThread, t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}

	d.runQueue = newRunQueue(len(threads))
	d.releases = newReleaseQueue(len(threads))
	for _, t := range threads {
		d.releases.push(model.ReleaseEntry{ReleaseTime: t.ArrivalTime, Thread: t})
	}
	d.loaded = true
	return nil
}

func (d *Dispatcher) Now() int { return d.clock }

func (d *Dispatcher) Metrics() *metrics.Metrics { return d.metrics }

// Runs one rescheduling point. Returns true once the run is over.
func (d *Dispatcher) Step() (done bool, err error) {
	if !d.loaded {
		return true, ErrNotLoaded
	}
	if d.halted || d.clock >= d.cfg.Horizon {
		return true, nil
	}

	if err := d.releaseDue(); err != nil {
		return true, err
	}
	if d.budgets {
		d.replenish()
	}
	if d.runQueue.len() == 0 && d.releases.len() == 0 {
		return true, nil
	}

	args := sched.Args{
		RunQueue:     d.runQueue.values(),
		ReleaseQueue: d.releases.values(),
		CurrentTime:  d.clock,
		TimeQuantum:  d.cfg.TimeQuantum,
	}
	res := d.policy.Schedule(args)
	d.logger.Debug("decision", "time", d.clock, "result", res)

	if err := d.apply(res); err != nil {
		return true, err
	}
	return d.halted, nil
}

// Steps until the run is over or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) (*Report, error) {
	d.logger.Info("run started", "policy", d.policy.Name(),
		"quantum", d.cfg.TimeQuantum, "horizon", d.cfg.Horizon, "miss", d.cfg.MissPolicy)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := d.Step()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	report := d.Report()
	d.logger.Info("run finished", "policy", report.Policy, "end", report.EndTime,
		"completed", report.Summary.Completed, "jobs", report.Summary.Jobs,
		"misses", report.Summary.DeadlineMisses, "halted", report.Halted)
	return report, nil
}

// Snapshot of the results so far.
func (d *Dispatcher) Report() *Report {
	trace := make([]Event, len(d.trace))
	copy(trace, d.trace)
	return &Report{
		Policy:     d.policy.Name(),
		EndTime:    d.clock,
		Halted:     d.halted,
		HaltReason: d.haltReason,
		Summary:    d.metrics.Summary(d.policy.Name(), d.clock),
		Jobs:       d.metrics.Jobs(),
		Trace:      trace,
	}
}

// -------------------- Rescheduling point --------------------

func (d *Dispatcher) releaseDue() error {
	for _, e := range d.releases.popDue(d.clock) {
		t := e.Thread
		t.Release(e.ReleaseTime)
		d.released[t.ID]++
		if !d.runQueue.push(t) {
			return fmt.Errorf("%w: run queue rejected %v", ErrQueueFull, t)
		}
		d.metrics.OnRelease(t.ID, e.ReleaseTime, t.ProcessingTime)
		d.emit(EventRelease, t.ID, 0)
	}
	return nil
}

// Refills the budget of every server whose throttling period ended and
// postpones its deadline by one period.
func (d *Dispatcher) replenish() {
	for _, t := range d.runQueue.values() {
		if !t.IsThrottled || d.clock < t.ThrottledUntil {
			continue
		}
		t.IsThrottled = false
		t.ThrottledUntil = 0
		t.RemainingBudget = t.Budget
		t.CurrentDeadline += t.ReleasePeriod()
		d.emit(EventReplenish, t.ID, t.Budget)
		d.logger.Debug("budget replenished", "thread", t.ID, "time", d.clock,
			"deadline", t.CurrentDeadline)
	}
}

func (d *Dispatcher) apply(res sched.Result) error {
	if res.Outcome != sched.Dispatch {
		if res.Thread != nil || res.AllocatedTime < 1 {
			return fmt.Errorf("%w: %v", ErrInvalidDecision, res)
		}
		d.idle(res.AllocatedTime)
		return nil
	}

	t := res.Thread
	if t == nil || res.AllocatedTime < 0 || !d.runQueue.contains(t) {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, res)
	}

	if res.AllocatedTime > 0 {
		d.run(t, min(res.AllocatedTime, t.RemainingTime, d.cfg.Horizon-d.clock))
		return nil
	}

	switch {
	case t.MissedDeadline(d.clock):
		d.miss(t)
	case t.RemainingTime == 0:
		d.finish(t)
	default:
		// A zero slice for a runnable thread would stall the clock.
		d.idle(1)
	}
	return nil
}

// -------------------- Decisions --------------------

func (d *Dispatcher) run(t *model.Thread, n int) {
	if d.last != t {
		preempted := d.last != nil && d.runQueue.contains(d.last)
		if preempted {
			d.emit(EventPreempt, d.last.ID, 0)
		}
		d.metrics.OnContextSwitch(preempted)
		d.last = t
	}

	d.emit(EventDispatch, t.ID, n)
	d.metrics.OnRun(t.ID, d.clock, n)
	d.clock += n
	t.RemainingTime -= n

	if d.budgets && t.IsBudgeted() {
		t.RemainingBudget = max(t.RemainingBudget-n, 0)
	}

	if t.RemainingTime == 0 {
		d.finish(t)
		return
	}
	if d.budgets && t.IsBudgeted() && t.RemainingBudget == 0 {
		d.throttle(t)
	}
	d.runQueue.moveToTail(t)
}

func (d *Dispatcher) idle(n int) {
	hadWork := false
	for _, t := range d.runQueue.values() {
		if t.RemainingTime > 0 {
			hadWork = true
			break
		}
	}

	// Sleeping past the horizon only inflates the idle time.
	n = min(n, max(d.cfg.Horizon-d.clock, 1))
	d.emit(EventIdle, NoThread, n)
	d.metrics.OnIdle(n, hadWork)
	d.clock += n
}

func (d *Dispatcher) finish(t *model.Thread) {
	d.runQueue.remove(t)
	d.leaveCPU(t)
	d.emit(EventFinish, t.ID, 0)
	d.metrics.OnComplete(t.ID, d.clock)
	d.scheduleNextJob(t)
}

func (d *Dispatcher) throttle(t *model.Thread) {
	t.IsThrottled = true
	t.ThrottledUntil = t.CurrentDeadline
	d.leaveCPU(t)
	d.emit(EventThrottle, t.ID, 0)
	d.metrics.OnThrottle()
	d.logger.Debug("budget exhausted", "thread", t.ID, "time", d.clock,
		"until", t.ThrottledUntil)
}

func (d *Dispatcher) miss(t *model.Thread) {
	d.emit(EventMiss, t.ID, 0)
	d.metrics.OnDeadlineMiss(t.ID)
	d.logger.Warn("deadline missed", "thread", t.ID, "time", d.clock,
		"deadline", t.CurrentDeadline, "policy", d.cfg.MissPolicy)

	switch d.cfg.MissPolicy {
	case model.MissHalt:
		d.halted = true
		d.haltReason = fmt.Sprintf("%v missed its deadline %d at %d", t, t.CurrentDeadline, d.clock)
	case model.MissSkip:
		d.runQueue.remove(t)
		d.leaveCPU(t)
		d.metrics.OnDrop(t.ID)
		d.scheduleNextJob(t)
	default:
		d.runQueue.remove(t)
		d.leaveCPU(t)
		d.metrics.OnDrop(t.ID)
	}
}

func (d *Dispatcher) leaveCPU(t *model.Thread) {
	if d.last == t {
		d.last = nil
	}
}

// Queues the next job of a periodic thread, unless it ran all its cycles
// or the release would fall past the horizon.
func (d *Dispatcher) scheduleNextJob(t *model.Thread) {
	period := t.ReleasePeriod()
	if period == 0 {
		return
	}
	if t.Cycles > 0 && d.released[t.ID] >= t.Cycles {
		return
	}
	next := t.ArrivalTime + period
	if next >= d.cfg.Horizon {
		return
	}
	d.releases.push(model.ReleaseEntry{ReleaseTime: next, Thread: t})
}

func (d *Dispatcher) emit(kind EventKind, threadID int, allocated int) {
	e := Event{Time: d.clock, Kind: kind, ThreadID: threadID, Allocated: allocated}
	d.trace = append(d.trace, e)
	d.metrics.RecordEvent(e.Time, kind.String(), threadID, allocated)
}
