package scheduler

import "threadsched/src/datastructures"

type fifoScheduler[T any] struct {
	queue datastructures.CircularQueue[*fifoEntry[T]]
}

type fifoEntry[T any] struct {
	scheduler *fifoScheduler[T]
	enqueued  bool
	userdata  T
}

// Creates a new FIFO scheduler.
//
// The FIFO scheduler ignores the priority and admits requests in order of
// arrival.
func NewFIFO[T any](capacity int) Scheduler[T] {
	return &fifoScheduler[T]{
		queue: datastructures.NewCircularQueue[*fifoEntry[T]](capacity),
	}
}

func (s *fifoScheduler[T]) CreateEntry(userdata T) SchedulerEntry[T] {
	return &fifoEntry[T]{
		scheduler: s,
		userdata:  userdata,
	}
}

func (s *fifoScheduler[T]) Dequeue() SchedulerEntry[T] {
	e, ok := s.queue.Dequeue()
	if !ok {
		return nil
	}

	e.enqueued = false
	return e
}

func (s *fifoScheduler[T]) Len() int {
	return s.queue.Len()
}

func (e *fifoEntry[T]) Enqueue() bool {
	if e.enqueued || !e.scheduler.queue.Enqueue(e) {
		return false
	}
	e.enqueued = true
	return true
}

func (e *fifoEntry[T]) SetPriority(priority float32) {}

func (e *fifoEntry[T]) UserData() T {
	return e.userdata
}
