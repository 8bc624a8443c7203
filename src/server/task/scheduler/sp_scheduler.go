package scheduler

import "threadsched/src/datastructures"

type spScheduler[T any] struct {
	queue datastructures.PriorityQueue[float32, *spEntry[T]]
}

type spEntry[T any] struct {
	scheduler *spScheduler[T]
	priority  float32
	enqueued  bool
	userdata  T
}

// Creates a new strict priority scheduler.
//
// The strict priority scheduler always yields the entry with largest priority
// first. Low priority requests starve while high priority ones keep coming.
func NewSP[T any](capacity int) Scheduler[T] {
	return &spScheduler[T]{
		queue: datastructures.NewPriorityQueue[float32, *spEntry[T]](capacity),
	}
}

func (s *spScheduler[T]) CreateEntry(userdata T) SchedulerEntry[T] {
	return &spEntry[T]{
		scheduler: s,
		userdata:  userdata,
	}
}

func (s *spScheduler[T]) Dequeue() SchedulerEntry[T] {
	e, ok := s.queue.Dequeue()
	if !ok {
		return nil
	}

	e.enqueued = false
	return e
}

func (s *spScheduler[T]) Len() int {
	return s.queue.Len()
}

func (e *spEntry[T]) Enqueue() bool {
	if e.enqueued || !e.scheduler.queue.Enqueue(e, e.priority) {
		return false
	}
	e.enqueued = true
	return true
}

func (e *spEntry[T]) SetPriority(priority float32) {
	e.priority = priority
}

func (e *spEntry[T]) UserData() T {
	return e.userdata
}
