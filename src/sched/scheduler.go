package sched

import (
	"fmt"

	"threadsched/src/model"
)

// A thread scheduling policy.
//
// Schedule is a pure function of its arguments: it never mutates the queues
// or the threads, keeps no state between calls and takes no locks. The
// dispatcher holds whatever synchronization protects the queues for the
// duration of the call.
type Policy interface {
	// Name of the policy, as accepted by New.
	Name() string

	// Select the next thread and how long it may run before the decision
	// has to be revisited.
	Schedule(args Args) Result
}

// Read-only view of the dispatcher state at a rescheduling point.
type Args struct {
	// Ready threads in queue order.
	RunQueue []*model.Thread
	// Threads not yet arrived, in no particular order.
	ReleaseQueue []model.ReleaseEntry
	CurrentTime  int
	// Only used by Priority-RR.
	TimeQuantum int
}

type Outcome int

const (
	// A thread was selected.
	Dispatch Outcome = iota
	// Nothing to run and nothing left to arrive.
	IdleEmpty
	// Nothing runnable now, but a release (or a CBS replenishment) is
	// pending.
	IdleWaitRelease
)

func (o Outcome) String() string {
	switch o {
	case Dispatch:
		return "dispatch"
	case IdleEmpty:
		return "idle-empty"
	case IdleWaitRelease:
		return "idle-wait-release"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// The decision. Thread is non-nil iff Outcome is Dispatch.
//
// AllocatedTime bounds how long the dispatcher may run Thread (or stay idle)
// before calling Schedule again. A Dispatch with AllocatedTime 0 on a
// real-time thread signals a deadline miss: the thread must not run and the
// dispatcher has to handle the failure.
type Result struct {
	Outcome       Outcome
	Thread        *model.Thread
	AllocatedTime int
}

func (r Result) IsIdle() bool {
	return r.Outcome != Dispatch
}

// Whether r signals a deadline miss of r.Thread at time now.
func (r Result) IsDeadlineMiss(now int) bool {
	return r.Outcome == Dispatch && r.AllocatedTime == 0 && r.Thread.MissedDeadline(now)
}

func (r Result) String() string {
	if r.Outcome == Dispatch {
		return fmt.Sprintf("dispatch %v for %d", r.Thread, r.AllocatedTime)
	}
	return fmt.Sprintf("%v for %d", r.Outcome, r.AllocatedTime)
}

func dispatch(t *model.Thread, allocated int) Result {
	return Result{Outcome: Dispatch, Thread: t, AllocatedTime: allocated}
}

// Idle result; the kind depends only on whether something is still pending.
func idle(pending bool, allocated int) Result {
	if allocated < 1 {
		allocated = 1
	}
	if pending {
		return Result{Outcome: IdleWaitRelease, AllocatedTime: allocated}
	}
	return Result{Outcome: IdleEmpty, AllocatedTime: allocated}
}

// Earliest release time in the release queue.
func nextRelease(q []model.ReleaseEntry) (next int, ok bool) {
	for i, e := range q {
		if i == 0 || e.ReleaseTime < next {
			next = e.ReleaseTime
		}
	}
	return next, len(q) > 0
}

// Caps a slice so the decision is revisited no later than event. An event
// that is already due forces a one-unit slice.
func boundByEvent(slice, now, event int) int {
	if event <= now {
		return 1
	}
	return min(slice, event-now)
}

// Implemented by policies that need the dispatcher to charge and enforce
// CBS budgets.
type BudgetEnforcer interface {
	EnforcesBudgets() bool
}
