package model_test

import (
	"testing"

	"threadsched/src/model"

	"github.com/stretchr/testify/assert"
)

func TestThreadRelease(t *testing.T) {
	th := &model.Thread{ID: 1, ProcessingTime: 4, IsRealTime: true, Deadline: 6, Budget: 2}
	th.IsThrottled = true
	th.Release(12)

	assert.Equal(t, 12, th.ArrivalTime)
	assert.Equal(t, 4, th.RemainingTime)
	assert.Equal(t, 18, th.CurrentDeadline)
	assert.Equal(t, 2, th.RemainingBudget)
	assert.False(t, th.IsThrottled)
}

func TestThreadReleasePeriod(t *testing.T) {
	assert.Equal(t, 0, (&model.Thread{}).ReleasePeriod())
	assert.Equal(t, 7, (&model.Thread{IsRealTime: true, Deadline: 7}).ReleasePeriod())
	assert.Equal(t, 9, (&model.Thread{IsRealTime: true, Deadline: 7, Period: 9}).ReleasePeriod())
}

func TestThreadMissedDeadline(t *testing.T) {
	th := &model.Thread{IsRealTime: true, RemainingTime: 5, CurrentDeadline: 10}

	assert.False(t, th.MissedDeadline(10))
	assert.True(t, th.MissedDeadline(11))

	th.RemainingTime = 0
	assert.False(t, th.MissedDeadline(11))
}

func TestThreadIsBudgeted(t *testing.T) {
	assert.True(t, (&model.Thread{IsRealTime: true, Budget: 2}).IsBudgeted())
	assert.False(t, (&model.Thread{IsRealTime: true, Budget: 2, IsHardRealTime: true}).IsBudgeted())
	assert.False(t, (&model.Thread{IsRealTime: true}).IsBudgeted())
}
