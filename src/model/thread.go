package model

import (
	"errors"
	"fmt"
)

var ErrInvalidThread = errors.New("invalid thread")

// Scheduling metadata of one thread.
//
// The dispatcher owns every Thread. Policies only read them; all mutation
// (remaining time, deadlines, CBS budget) happens in the dispatcher between
// two decisions.
type Thread struct {
	ID int `yaml:"id"`

	ArrivalTime    int `yaml:"arrival"`
	ProcessingTime int `yaml:"processing"`
	// 0 means the current job is finished.
	RemainingTime int `yaml:"-"`

	// Lower value is higher priority.
	Priority int `yaml:"priority"`

	IsRealTime bool `yaml:"realtime"`
	// Relative deadline of every job.
	Deadline int `yaml:"deadline"`
	// Absolute deadline of the current job.
	CurrentDeadline int `yaml:"-"`

	// Period between job releases and CBS server period. Zero means
	// Deadline for real-time threads and a single job otherwise.
	Period int `yaml:"period"`
	// Number of jobs of a periodic thread. Zero runs until the horizon.
	Cycles int `yaml:"cycles"`

	// CBS server budget per period. Zero disables budget enforcement.
	Budget          int  `yaml:"budget"`
	IsHardRealTime  bool `yaml:"hard"`
	RemainingBudget int  `yaml:"-"`
	IsThrottled     bool `yaml:"-"`
	ThrottledUntil  int  `yaml:"-"`
}

// Entry of the release queue: a thread that becomes ready at ReleaseTime.
type ReleaseEntry struct {
	ReleaseTime int
	Thread      *Thread
}

func (t *Thread) String() string {
	return fmt.Sprintf("thread#%d", t.ID)
}

// Period between two releases, or 0 for a one-shot thread.
func (t *Thread) ReleasePeriod() int {
	if t.Period > 0 {
		return t.Period
	}
	if t.IsRealTime {
		return t.Deadline
	}
	return 0
}

// Whether the CBS budget of this thread is enforced.
func (t *Thread) IsBudgeted() bool {
	return t.IsRealTime && !t.IsHardRealTime && t.Budget > 0
}

// Whether the thread has missed its current deadline at now.
func (t *Thread) MissedDeadline(now int) bool {
	return t.IsRealTime && t.RemainingTime > 0 && now > t.CurrentDeadline
}

// Resets the per-job state for a job released at time r.
func (t *Thread) Release(r int) {
	t.ArrivalTime = r
	t.RemainingTime = t.ProcessingTime
	if t.IsRealTime {
		t.CurrentDeadline = r + t.Deadline
	}
	t.RemainingBudget = t.Budget
	t.IsThrottled = false
	t.ThrottledUntil = 0
}

func (t *Thread) Validate() error {
	switch {
	case t.ID < 0:
		return fmt.Errorf("%w: %v has a negative id", ErrInvalidThread, t)
	case t.ArrivalTime < 0:
		return fmt.Errorf("%w: %v arrives before time 0", ErrInvalidThread, t)
	case t.ProcessingTime <= 0:
		return fmt.Errorf("%w: %v needs a positive processing time", ErrInvalidThread, t)
	case t.RemainingTime < 0 || t.RemainingTime > t.ProcessingTime:
		return fmt.Errorf("%w: %v remaining time %d outside [0, %d]",
			ErrInvalidThread, t, t.RemainingTime, t.ProcessingTime)
	case t.IsRealTime && t.Deadline <= 0:
		return fmt.Errorf("%w: real-time %v needs a positive deadline", ErrInvalidThread, t)
	case t.Period < 0 || t.Cycles < 0 || t.Budget < 0:
		return fmt.Errorf("%w: %v has a negative period, cycle count or budget", ErrInvalidThread, t)
	case t.Budget > 0 && !t.IsRealTime:
		return fmt.Errorf("%w: %v has a CBS budget but is not real-time", ErrInvalidThread, t)
	}
	return nil
}
