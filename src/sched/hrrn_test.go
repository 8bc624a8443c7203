package sched_test

import (
	"testing"

	"threadsched/src/model"
	"threadsched/src/sched"

	"github.com/stretchr/testify/assert"
)

// Test that the largest response ratio wins regardless of ID.
func TestHRRN_LargestRatio(t *testing.T) {
	p := sched.NewHRRN()

	// ratios at t=10: (10+10)/10 = 2, (8+2)/2 = 5
	long := &model.Thread{ID: 1, ArrivalTime: 0, ProcessingTime: 10, RemainingTime: 10}
	short := &model.Thread{ID: 2, ArrivalTime: 2, ProcessingTime: 2, RemainingTime: 2}

	r := p.Schedule(sched.Args{RunQueue: []*model.Thread{long, short}, CurrentTime: 10})

	assert.Same(t, short, r.Thread)
	assert.Equal(t, 2, r.AllocatedTime)
}

// Test equal ratios that floating point would not represent exactly:
// (1+3)/3 and (2+6)/6 are both 4/3.
func TestHRRN_EqualRatioTieBreak(t *testing.T) {
	p := sched.NewHRRN()

	a := &model.Thread{ID: 7, ArrivalTime: 9, ProcessingTime: 3, RemainingTime: 3}
	b := &model.Thread{ID: 4, ArrivalTime: 8, ProcessingTime: 6, RemainingTime: 5}

	r := p.Schedule(sched.Args{RunQueue: []*model.Thread{a, b}, CurrentTime: 10})
	assert.Same(t, b, r.Thread)
	assert.Equal(t, 5, r.AllocatedTime)

	// queue order must not matter
	r = p.Schedule(sched.Args{RunQueue: []*model.Thread{b, a}, CurrentTime: 10})
	assert.Same(t, b, r.Thread)
}

// Test ratios that differ by less than float64 can resolve.
func TestHRRN_ExactComparison(t *testing.T) {
	p := sched.NewHRRN()

	const burst = 1 << 30
	// (burst+1)/burst vs (burst-1+1)/(burst-1): the second is larger
	a := &model.Thread{ID: 1, ArrivalTime: 0, ProcessingTime: burst, RemainingTime: 1}
	b := &model.Thread{ID: 2, ArrivalTime: 0, ProcessingTime: burst - 1, RemainingTime: 2}

	r := p.Schedule(sched.Args{RunQueue: []*model.Thread{a, b}, CurrentTime: 1})
	assert.Same(t, b, r.Thread)
}

func TestHRRN_EmptyQueue(t *testing.T) {
	r := sched.NewHRRN().Schedule(sched.Args{})

	assert.Equal(t, sched.IdleEmpty, r.Outcome)
	assert.Equal(t, 1, r.AllocatedTime)
}
