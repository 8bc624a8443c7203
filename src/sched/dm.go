package sched

import "threadsched/src/model"

type dmPolicy struct{}

// Creates a Deadline-Monotonic policy.
//
// Real-time threads run before all others, ordered by their relative
// deadline. A real-time thread that already missed its current deadline is
// returned with zero allocated time, ahead of everything else. Slices end
// at the next release so a newly released thread with a shorter deadline
// preempts on arrival.
func NewDM() Policy {
	return dmPolicy{}
}

func (dmPolicy) Name() string { return DMPolicy }

// Strict total order: real-time first, then shorter deadline, then ID.
// Non-real-time threads compare by ID only.
func dmLess(a, b *model.Thread) bool {
	if a.IsRealTime != b.IsRealTime {
		return a.IsRealTime
	}
	if a.IsRealTime && a.Deadline != b.Deadline {
		return a.Deadline < b.Deadline
	}
	return a.ID < b.ID
}

// Smallest-ID real-time thread that missed its current deadline.
func findDeadlineMiss(q []*model.Thread, now int, eligible func(*model.Thread) bool) *model.Thread {
	var missed *model.Thread
	for _, th := range q {
		if !th.MissedDeadline(now) || (eligible != nil && !eligible(th)) {
			continue
		}
		if missed == nil || th.ID < missed.ID {
			missed = th
		}
	}
	return missed
}

func (dmPolicy) Schedule(args Args) Result {
	now := args.CurrentTime

	if missed := findDeadlineMiss(args.RunQueue, now, nil); missed != nil {
		return dispatch(missed, 0)
	}

	var selected *model.Thread
	for _, th := range args.RunQueue {
		if th.RemainingTime <= 0 {
			continue
		}
		if selected == nil || dmLess(th, selected) {
			selected = th
		}
	}

	next, pending := nextRelease(args.ReleaseQueue)

	if selected == nil {
		if pending {
			return idle(true, next-now)
		}
		return idle(false, 1)
	}

	if pending {
		return dispatch(selected, boundByEvent(selected.RemainingTime, now, next))
	}
	return dispatch(selected, selected.RemainingTime)
}
