package sched

import "threadsched/src/model"

type edfCBSPolicy struct{}

// Creates an Earliest Deadline First policy with Constant Bandwidth Server
// budgets.
//
// Real-time threads run before all others, ordered by absolute deadline. A
// soft real-time thread with a budget never gets a slice longer than its
// remaining budget. Once the budget is spent the dispatcher throttles the
// thread until the end of its server period, and throttled threads are not
// eligible. A deadline miss is only signalled for an eligible thread, so
// throttling postpones a deadline instead of failing it.
//
// Slices end at the next release or replenishment, whichever comes first.
func NewEDFCBS() Policy {
	return edfCBSPolicy{}
}

func (edfCBSPolicy) Name() string { return EDFCBSPolicy }

func edfEligible(th *model.Thread) bool {
	if th.RemainingTime <= 0 || th.IsThrottled {
		return false
	}
	return !th.IsBudgeted() || th.RemainingBudget > 0
}

// Strict total order: real-time first, then earlier absolute deadline, then
// ID. Non-real-time threads compare by ID only.
func edfLess(a, b *model.Thread) bool {
	if a.IsRealTime != b.IsRealTime {
		return a.IsRealTime
	}
	if a.IsRealTime && a.CurrentDeadline != b.CurrentDeadline {
		return a.CurrentDeadline < b.CurrentDeadline
	}
	return a.ID < b.ID
}

// Earliest release or replenishment time.
func edfNextEvent(args Args) (next int, ok bool) {
	next, ok = nextRelease(args.ReleaseQueue)
	for _, th := range args.RunQueue {
		if !th.IsThrottled {
			continue
		}
		if !ok || th.ThrottledUntil < next {
			next, ok = th.ThrottledUntil, true
		}
	}
	return
}

func (edfCBSPolicy) Schedule(args Args) Result {
	now := args.CurrentTime

	if missed := findDeadlineMiss(args.RunQueue, now, edfEligible); missed != nil {
		return dispatch(missed, 0)
	}

	var selected *model.Thread
	for _, th := range args.RunQueue {
		if !edfEligible(th) {
			continue
		}
		if selected == nil || edfLess(th, selected) {
			selected = th
		}
	}

	next, pending := edfNextEvent(args)

	if selected == nil {
		if pending {
			return idle(true, next-now)
		}
		return idle(false, 1)
	}

	slice := selected.RemainingTime
	if selected.IsBudgeted() {
		slice = min(slice, selected.RemainingBudget)
	}
	if pending {
		slice = boundByEvent(slice, now, next)
	}
	return dispatch(selected, slice)
}

func (edfCBSPolicy) EnforcesBudgets() bool { return true }
