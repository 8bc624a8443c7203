package task

import (
	"errors"
	"fmt"
	"sync"

	"threadsched/src/datastructures"
	"threadsched/src/model"
	"threadsched/src/server/task/scheduler"
)

type QueuePolicy string

const (
	FifoQueue           QueuePolicy = "fifo"
	StrictPriorityQueue QueuePolicy = "sp"
	WeightedFairQueue   QueuePolicy = "wfq"
)

var (
	ErrInvalidQueuePolicy = errors.New("invalid queue policy")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrQueueFull          = errors.New("task queue full")
	ErrStopped            = errors.New("task scheduler stopped")
)

func (p QueuePolicy) Valid() bool {
	switch p {
	case FifoQueue, StrictPriorityQueue, WeightedFairQueue:
		return true
	}
	return false
}

// Admits simulation requests to the single worker that runs them.
type TaskScheduler interface {
	Stop()
	Enqueue(priority model.Priority, task func()) error
	// Number of tasks waiting for admission.
	Pending() int
	// Executes tasks until Stop is called. Blocks.
	Run()
}

// Creates a task scheduler holding at most capacity tasks per priority
// level.
func NewTaskScheduler(policy QueuePolicy, capacity int) (TaskScheduler, error) {
	switch policy {
	case FifoQueue:
		return newFifoTaskScheduler(capacity), nil
	case StrictPriorityQueue, WeightedFairQueue:
		return newPriorityTaskScheduler(policy, capacity), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidQueuePolicy, policy)
	}
}

// Weight of a priority level for the SP and WFQ schedulers.
func getPriority(priority model.Priority) float32 {
	switch priority {
	case model.HIGH_PRIORITY:
		return 10.0
	default:
		return 1.0
	}
}

func checkPriority(priority model.Priority) error {
	if priority < 0 || int(priority) >= model.PRIORITY_LEVEL_COUNT {
		return fmt.Errorf("%w: %d must be between 0 and %d",
			ErrInvalidPriority, priority, model.PRIORITY_LEVEL_COUNT-1)
	}
	return nil
}

// FIFO Task Scheduler

type fifoTaskScheduler struct {
	scheduler scheduler.Scheduler[func()]

	mutex     *sync.Mutex
	cond      *sync.Cond
	isStopped bool
}

func newFifoTaskScheduler(capacity int) *fifoTaskScheduler {
	mutex := &sync.Mutex{}

	return &fifoTaskScheduler{
		scheduler: scheduler.NewFIFO[func()](capacity * model.PRIORITY_LEVEL_COUNT),

		mutex: mutex,
		cond:  sync.NewCond(mutex),
	}
}

func (fs *fifoTaskScheduler) Stop() {
	fs.mutex.Lock()

	fs.isStopped = true

	fs.mutex.Unlock()
	fs.cond.Broadcast()
}

func (fs *fifoTaskScheduler) Enqueue(priority model.Priority, task func()) error {
	if err := checkPriority(priority); err != nil {
		return err
	}

	fs.mutex.Lock()
	defer fs.cond.Broadcast()
	defer fs.mutex.Unlock()

	if fs.isStopped {
		return ErrStopped
	}
	if !fs.scheduler.CreateEntry(task).Enqueue() {
		return ErrQueueFull
	}
	return nil
}

func (fs *fifoTaskScheduler) Pending() int {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return fs.scheduler.Len()
}

func (fs *fifoTaskScheduler) Run() {
	fs.mutex.Lock()

	for !fs.isStopped {
		entry := fs.scheduler.Dequeue()
		if entry == nil {
			fs.cond.Wait()
			continue
		}

		task := entry.UserData()

		// Execute task outside mutex
		fs.mutex.Unlock()
		task()
		fs.mutex.Lock()
	}

	fs.mutex.Unlock()
}

// Priority Task Scheduler

type priorityTaskScheduler struct {
	groups    []*priorityGroup
	scheduler scheduler.Scheduler[int]

	mutex     *sync.Mutex
	cond      *sync.Cond
	isStopped bool
}

// Tasks of one priority level. The group, not the task, competes in the
// scheduler.
type priorityGroup struct {
	entry    scheduler.SchedulerEntry[int]
	tasks    datastructures.CircularQueue[func()]
	priority float32
}

func newPriorityTaskScheduler(policy QueuePolicy, capacity int) *priorityTaskScheduler {
	var sc scheduler.Scheduler[int]
	if policy == StrictPriorityQueue {
		sc = scheduler.NewSP[int](model.PRIORITY_LEVEL_COUNT)
	} else {
		sc = scheduler.NewWFQ[int](model.PRIORITY_LEVEL_COUNT)
	}

	groups := make([]*priorityGroup, model.PRIORITY_LEVEL_COUNT)
	for i := range groups {
		groups[i] = &priorityGroup{
			entry:    sc.CreateEntry(i),
			tasks:    datastructures.NewCircularQueue[func()](capacity),
			priority: getPriority(model.Priority(i)),
		}
		groups[i].entry.SetPriority(groups[i].priority)
	}

	mutex := &sync.Mutex{}

	return &priorityTaskScheduler{
		groups:    groups,
		scheduler: sc,

		mutex: mutex,
		cond:  sync.NewCond(mutex),
	}
}

func (ps *priorityTaskScheduler) Stop() {
	ps.mutex.Lock()

	ps.isStopped = true

	ps.mutex.Unlock()
	ps.cond.Broadcast()
}

func (ps *priorityTaskScheduler) Enqueue(priority model.Priority, task func()) error {
	if err := checkPriority(priority); err != nil {
		return err
	}

	ps.mutex.Lock()
	defer ps.cond.Broadcast()
	defer ps.mutex.Unlock()

	if ps.isStopped {
		return ErrStopped
	}

	group := ps.groups[priority]

	wasEmpty := group.tasks.IsEmpty()
	if !group.tasks.Enqueue(task) {
		return ErrQueueFull
	}
	if wasEmpty {
		group.entry.Enqueue()
	}
	return nil
}

func (ps *priorityTaskScheduler) Pending() int {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	n := 0
	for _, g := range ps.groups {
		n += g.tasks.Len()
	}
	return n
}

func (ps *priorityTaskScheduler) Run() {
	ps.mutex.Lock()

	for !ps.isStopped {
		entry := ps.scheduler.Dequeue()
		if entry == nil {
			ps.cond.Wait()
			continue
		}

		group := ps.groups[entry.UserData()]

		if task, ok := group.tasks.Dequeue(); ok {
			if !group.tasks.IsEmpty() {
				entry.Enqueue()
			}

			// Execute task outside mutex
			ps.mutex.Unlock()
			task()
			ps.mutex.Lock()
		}
	}

	ps.mutex.Unlock()
}
