package sched

import "threadsched/src/model"

type hrrnPolicy struct{}

// Creates a Highest Response Ratio Next policy.
//
// The ready thread with the largest (waiting + burst) / burst runs to
// completion. Ratios are compared exactly, as fractions.
func NewHRRN() Policy {
	return hrrnPolicy{}
}

func (hrrnPolicy) Name() string { return HRRNPolicy }

// A response ratio kept as a fraction with a positive denominator.
type responseRatio struct {
	num, denom int64
}

func ratioOf(th *model.Thread, now int) responseRatio {
	burst := int64(th.ProcessingTime)
	if burst < 1 {
		burst = 1
	}
	waiting := int64(now - th.ArrivalTime)
	return responseRatio{num: waiting + burst, denom: burst}
}

// Compares by cross-multiplication; both denominators are positive.
func (a responseRatio) cmp(b responseRatio) int {
	l, r := a.num*b.denom, b.num*a.denom
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func (hrrnPolicy) Schedule(args Args) Result {
	var selected *model.Thread
	var best responseRatio

	for _, th := range args.RunQueue {
		ratio := ratioOf(th, args.CurrentTime)
		if selected == nil {
			selected, best = th, ratio
			continue
		}
		c := ratio.cmp(best)
		if c > 0 || (c == 0 && th.ID < selected.ID) {
			selected, best = th, ratio
		}
	}

	if selected == nil {
		return idle(len(args.ReleaseQueue) > 0, 1)
	}
	return dispatch(selected, selected.RemainingTime)
}
