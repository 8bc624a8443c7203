package metrics

import "sync"

// Timing of one job, that is one release of a thread.
type JobStat struct {
	ThreadID   int  `yaml:"thread" json:"thread"`
	Job        int  `yaml:"job" json:"job"`
	Release    int  `yaml:"release" json:"release"`
	Processing int  `yaml:"processing" json:"processing"`
	FirstRun   int  `yaml:"first_run" json:"first_run"`   // -1 if it never ran
	Completion int  `yaml:"completion" json:"completion"` // -1 if it did not complete
	Missed     bool `yaml:"missed,omitempty" json:"missed,omitempty"`
}

func (j JobStat) Started() bool   { return j.FirstRun >= 0 }
func (j JobStat) Completed() bool { return j.Completion >= 0 }

func (j JobStat) Response() int   { return j.FirstRun - j.Release }
func (j JobStat) Turnaround() int { return j.Completion - j.Release }
func (j JobStat) Waiting() int    { return j.Turnaround() - j.Processing }

// Aggregates of one run.
type Summary struct {
	Policy  string `yaml:"policy" json:"policy"`
	EndTime int    `yaml:"end_time" json:"end_time"`

	Jobs           int `yaml:"jobs" json:"jobs"`
	Completed      int `yaml:"completed" json:"completed"`
	DeadlineMisses int `yaml:"deadline_misses" json:"deadline_misses"`
	Throttles      int `yaml:"throttles" json:"throttles"`

	ContextSwitches int `yaml:"context_switches" json:"context_switches"`
	Preemptions     int `yaml:"preemptions" json:"preemptions"`

	BusyTime     int `yaml:"busy_time" json:"busy_time"`
	IdleTime     int `yaml:"idle_time" json:"idle_time"`
	IdleWithWork int `yaml:"idle_with_work" json:"idle_with_work"`

	AvgResponse   float64 `yaml:"avg_response" json:"avg_response"`
	AvgTurnaround float64 `yaml:"avg_turnaround" json:"avg_turnaround"`
	AvgWaiting    float64 `yaml:"avg_waiting" json:"avg_waiting"`

	UtilizationPct  float64 `yaml:"utilization_pct" json:"utilization_pct"`
	IdleWithWorkPct float64 `yaml:"idle_with_work_pct" json:"idle_with_work_pct"`
	JainFairness    float64 `yaml:"jain_fairness" json:"jain_fairness"`
}

// Collects per-job timings and counters of a dispatcher run.
type Metrics struct {
	mu sync.Mutex

	jobs    []*JobStat
	current map[int]*JobStat // thread ID -> job in flight
	count   map[int]int      // thread ID -> jobs released

	contextSwitches int
	preemptions     int
	misses          int
	throttles       int
	wc              workConserving

	trace csvOut
}

func New() *Metrics {
	return &Metrics{
		current: map[int]*JobStat{},
		count:   map[int]int{},
	}
}

// Mirrors every dispatcher event into a CSV file.
func (m *Metrics) InitTraceCSV(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trace.open(path, traceHeader)
}

func (m *Metrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trace.close()
}

// -------------------- Events --------------------

func (m *Metrics) RecordEvent(time int, kind string, threadID int, allocated int) {
	m.trace.write([]string{itoa(time), kind, itoa(threadID), itoa(allocated)})
}

func (m *Metrics) OnRelease(threadID, at, processing int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.count[threadID]++
	j := &JobStat{
		ThreadID:   threadID,
		Job:        m.count[threadID],
		Release:    at,
		Processing: processing,
		FirstRun:   -1,
		Completion: -1,
	}
	m.jobs = append(m.jobs, j)
	m.current[threadID] = j
}

func (m *Metrics) OnRun(threadID, start, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j := m.current[threadID]; j != nil && j.FirstRun < 0 {
		j.FirstRun = start
	}
	m.wc.run(n)
}

func (m *Metrics) OnIdle(n int, hadWork bool) {
	m.mu.Lock()
	m.wc.idleFor(n, hadWork)
	m.mu.Unlock()
}

func (m *Metrics) OnComplete(threadID, at int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j := m.current[threadID]; j != nil {
		j.Completion = at
		delete(m.current, threadID)
	}
}

func (m *Metrics) OnDeadlineMiss(threadID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	if j := m.current[threadID]; j != nil {
		j.Missed = true
	}
}

// The job in flight is abandoned; it stays in the stats as not completed.
func (m *Metrics) OnDrop(threadID int) {
	m.mu.Lock()
	delete(m.current, threadID)
	m.mu.Unlock()
}

func (m *Metrics) OnThrottle() {
	m.mu.Lock()
	m.throttles++
	m.mu.Unlock()
}

func (m *Metrics) OnContextSwitch(preempted bool) {
	m.mu.Lock()
	m.contextSwitches++
	if preempted {
		m.preemptions++
	}
	m.mu.Unlock()
}

// -------------------- Results --------------------

// Copies of all jobs in release order.
func (m *Metrics) Jobs() []JobStat {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]JobStat, len(m.jobs))
	for i, j := range m.jobs {
		out[i] = *j
	}
	return out
}

func (m *Metrics) Summary(policy string, endTime int) Summary {
	jobs := m.Jobs()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		Policy:          policy,
		EndTime:         endTime,
		Jobs:            len(jobs),
		DeadlineMisses:  m.misses,
		Throttles:       m.throttles,
		ContextSwitches: m.contextSwitches,
		Preemptions:     m.preemptions,
		BusyTime:        m.wc.busy,
		IdleTime:        m.wc.idle,
		IdleWithWork:    m.wc.idleWithWork,
		UtilizationPct:  m.wc.utilizationPct(),
		IdleWithWorkPct: m.wc.idleWithWorkPct(),
		JainFairness:    JainIndex(normalizedTurnarounds(jobs)),
	}

	var started, responseSum, turnaroundSum, waitingSum int
	for _, j := range jobs {
		if j.Started() {
			started++
			responseSum += j.Response()
		}
		if j.Completed() {
			s.Completed++
			turnaroundSum += j.Turnaround()
			waitingSum += j.Waiting()
		}
	}
	s.AvgResponse = div(responseSum, started)
	s.AvgTurnaround = div(turnaroundSum, s.Completed)
	s.AvgWaiting = div(waitingSum, s.Completed)
	return s
}

func div(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
