package scheduler

import "threadsched/src/datastructures"

type wfqScheduler[T any] struct {
	queue datastructures.PriorityQueue[float32, *wfqEntry[T]]
	// Virtual time: finish tag of the last served entry.
	virtualTime float32
}

type wfqEntry[T any] struct {
	scheduler     *wfqScheduler[T]
	inverseWeight float32
	enqueued      bool
	finish        float32
	userdata      T
}

// Creates a new weighted fair queuing scheduler.
//
// Entries are served in proportion to their priorities: an entry of priority
// 10 is admitted ten times as often as one of priority 1 while both have
// requests waiting.
func NewWFQ[T any](capacity int) Scheduler[T] {
	return &wfqScheduler[T]{
		queue: datastructures.NewPriorityQueue[float32, *wfqEntry[T]](capacity),
	}
}

func (s *wfqScheduler[T]) CreateEntry(userdata T) SchedulerEntry[T] {
	return &wfqEntry[T]{
		scheduler:     s,
		inverseWeight: 1.0,
		finish:        s.virtualTime,
		userdata:      userdata,
	}
}

func (s *wfqScheduler[T]) Dequeue() SchedulerEntry[T] {
	e, ok := s.queue.Dequeue()
	if !ok {
		return nil
	}

	e.finish += e.inverseWeight
	s.virtualTime = e.finish
	e.enqueued = false

	return e
}

func (s *wfqScheduler[T]) Len() int {
	return s.queue.Len()
}

func (e *wfqEntry[T]) Enqueue() bool {
	// An entry that sat idle must not bank credit from the past.
	e.finish = max(e.finish, e.scheduler.virtualTime)

	// Smallest finish tag first
	if e.enqueued || !e.scheduler.queue.Enqueue(e, -e.finish) {
		return false
	}
	e.enqueued = true
	return true
}

func (e *wfqEntry[T]) SetPriority(priority float32) {
	e.inverseWeight = 1.0 / priority
}

func (e *wfqEntry[T]) UserData() T {
	return e.userdata
}
