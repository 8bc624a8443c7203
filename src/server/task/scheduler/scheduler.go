package scheduler

// An admission scheduler for values of type T.
//
// Not thread-safe. The task scheduler guards it with its own mutex.
type Scheduler[T any] interface {
	// Create an entry for this scheduler.
	CreateEntry(userdata T) SchedulerEntry[T]

	// Dequeue the next entry according to the scheduler policy.
	//
	// Returns nil if there's no enqueued entries.
	Dequeue() SchedulerEntry[T]

	// Number of enqueued entries.
	Len() int
}

// The entry for a scheduler.
//
// The entry keeps track of the necessary data a scheduler associates with a
// given value.
type SchedulerEntry[T any] interface {
	// Enqueue this entry.
	//
	// Returns true on success, false if the scheduler is full or this entry
	// is already enqueued.
	Enqueue() bool

	// Set the priority for this entry. Larger is more urgent; what that
	// means depends on the scheduler policy.
	SetPriority(priority float32)

	// Returns the user data for this entry.
	UserData() T
}
