package sched

import "threadsched/src/model"

type defaultPolicy struct{}

// Creates the default policy.
//
// The default policy runs the ready thread with the smallest ID to
// completion.
func NewDefault() Policy {
	return defaultPolicy{}
}

func (defaultPolicy) Name() string { return DefaultPolicy }

func (defaultPolicy) Schedule(args Args) Result {
	var selected *model.Thread
	for _, th := range args.RunQueue {
		if selected == nil || th.ID < selected.ID {
			selected = th
		}
	}

	if selected == nil {
		return idle(len(args.ReleaseQueue) > 0, 1)
	}
	return dispatch(selected, selected.RemainingTime)
}
