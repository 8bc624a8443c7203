package sched

import "threadsched/src/model"

type priorityRRPolicy struct{}

// Creates a priority round-robin policy.
//
// Threads sharing the highest priority (lowest value) take turns in slices
// of at most one time quantum; a thread alone at that priority runs to
// completion.
//
// This is only half of the round-robin: Schedule always picks the head of
// the group in run queue order. The dispatcher must re-queue a preempted
// thread at the tail, otherwise the rest of the group starves.
func NewPriorityRR() Policy {
	return priorityRRPolicy{}
}

func (priorityRRPolicy) Name() string { return PriorityRRPolicy }

func (priorityRRPolicy) Schedule(args Args) Result {
	if len(args.RunQueue) == 0 {
		return idle(len(args.ReleaseQueue) > 0, 1)
	}

	highest := args.RunQueue[0].Priority
	for _, th := range args.RunQueue[1:] {
		if th.Priority < highest {
			highest = th.Priority
		}
	}

	var selected *model.Thread
	countInGroup := 0
	for _, th := range args.RunQueue {
		if th.Priority != highest {
			continue
		}
		if selected == nil {
			selected = th
		}
		countInGroup++
	}

	if countInGroup == 1 {
		return dispatch(selected, selected.RemainingTime)
	}

	quantum := max(args.TimeQuantum, 1)
	return dispatch(selected, min(selected.RemainingTime, quantum))
}
