package sched_test

import "threadsched/src/model"

func thread(id, remaining int) *model.Thread {
	return &model.Thread{ID: id, ProcessingTime: remaining, RemainingTime: remaining}
}

func rtThread(id, remaining, deadline, currentDeadline int) *model.Thread {
	return &model.Thread{
		ID:              id,
		ProcessingTime:  remaining,
		RemainingTime:   remaining,
		IsRealTime:      true,
		Deadline:        deadline,
		CurrentDeadline: currentDeadline,
	}
}

func release(at int, th *model.Thread) model.ReleaseEntry {
	return model.ReleaseEntry{ReleaseTime: at, Thread: th}
}
